package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/afero"

	"github.com/julianmb-g/coralnpu/collector"
	"github.com/julianmb-g/coralnpu/riscv"
)

// TraceRecord is one line of a replay trace: one decoded retired instruction
// tagged with its extension, JSON-lines encoded. Fields a given extension
// does not use stay zero. Numeric fields are decoded wide and narrowed with
// range checks so an out-of-width value is rejected before a transaction is
// ever constructed.
type TraceRecord struct {
	Extension string `json:"extension"`
	Inst      string `json:"inst"`
	Trap      bool   `json:"trap"`
	Rd        uint32 `json:"rd"`
	Rs1       uint32 `json:"rs1"`
	Rs2       uint32 `json:"rs2"`
	RdVal     uint32 `json:"rd_val"`
	Rs1Val    uint32 `json:"rs1_val"`
	Rs2Val    uint32 `json:"rs2_val"`
	Imm       int32  `json:"imm"`
	Funct12   uint32 `json:"funct12"`
	Csr       uint32 `json:"csr"`
	Uimm      uint32 `json:"uimm"`
	Shamt     uint32 `json:"shamt"`
	Rm        uint32 `json:"rm"`
	Sew       uint32 `json:"sew"`
	Lmul      uint32 `json:"lmul"`
}

func narrow8(ext riscv.Extension, field string, v uint32) (uint8, error) {
	if v > 0xFF {
		return 0, fmt.Errorf("%s record: field %s value %d out of range", ext, field, v)
	}
	return uint8(v), nil
}

func narrow16(ext riscv.Extension, field string, v uint32) (uint16, error) {
	if v > 0xFFFF {
		return 0, fmt.Errorf("%s record: field %s value %d out of range", ext, field, v)
	}
	return uint16(v), nil
}

// Transaction converts the record into its extension's typed transaction.
// Width validation proper happens inside the collector; this only rejects
// values the narrower struct fields could not even represent.
func (r *TraceRecord) Transaction() (riscv.Transaction, error) {
	ext, err := riscv.ParseExtension(r.Extension)
	if err != nil {
		return nil, err
	}

	switch ext {
	case riscv.ExtRV32I:
		tx := &riscv.RV32ITransaction{
			Inst:   riscv.Mnemonic(r.Inst),
			RdVal:  r.RdVal,
			Rs1Val: r.Rs1Val,
			Rs2Val: r.Rs2Val,
			Imm:    r.Imm,
			Trap:   r.Trap,
		}
		if tx.RdAddr, err = narrow8(ext, "rd", r.Rd); err != nil {
			return nil, err
		}
		if tx.Rs1Addr, err = narrow8(ext, "rs1", r.Rs1); err != nil {
			return nil, err
		}
		if tx.Rs2Addr, err = narrow8(ext, "rs2", r.Rs2); err != nil {
			return nil, err
		}
		return tx, nil

	case riscv.ExtRV32M:
		tx := &riscv.RV32MTransaction{
			Inst:   riscv.Mnemonic(r.Inst),
			RdVal:  r.RdVal,
			Rs1Val: r.Rs1Val,
			Rs2Val: r.Rs2Val,
			Trap:   r.Trap,
		}
		if tx.RdAddr, err = narrow8(ext, "rd", r.Rd); err != nil {
			return nil, err
		}
		if tx.Rs1Addr, err = narrow8(ext, "rs1", r.Rs1); err != nil {
			return nil, err
		}
		if tx.Rs2Addr, err = narrow8(ext, "rs2", r.Rs2); err != nil {
			return nil, err
		}
		return tx, nil

	case riscv.ExtRV32F:
		tx := &riscv.RV32FTransaction{
			Inst:   riscv.Mnemonic(r.Inst),
			FdVal:  r.RdVal,
			Fs1Val: r.Rs1Val,
			Fs2Val: r.Rs2Val,
			Trap:   r.Trap,
		}
		if tx.FdAddr, err = narrow8(ext, "rd", r.Rd); err != nil {
			return nil, err
		}
		if tx.Fs1Addr, err = narrow8(ext, "rs1", r.Rs1); err != nil {
			return nil, err
		}
		if tx.Fs2Addr, err = narrow8(ext, "rs2", r.Rs2); err != nil {
			return nil, err
		}
		if tx.Rm, err = narrow8(ext, "rm", r.Rm); err != nil {
			return nil, err
		}
		return tx, nil

	case riscv.ExtRV32V:
		tx := &riscv.RV32VTransaction{
			Inst: riscv.Mnemonic(r.Inst),
			Trap: r.Trap,
		}
		if tx.VdAddr, err = narrow8(ext, "rd", r.Rd); err != nil {
			return nil, err
		}
		if tx.Vs1Addr, err = narrow8(ext, "rs1", r.Rs1); err != nil {
			return nil, err
		}
		if tx.Vs2Addr, err = narrow8(ext, "rs2", r.Rs2); err != nil {
			return nil, err
		}
		if tx.Sew, err = narrow8(ext, "sew", r.Sew); err != nil {
			return nil, err
		}
		if tx.Lmul, err = narrow8(ext, "lmul", r.Lmul); err != nil {
			return nil, err
		}
		return tx, nil

	case riscv.ExtZicsr:
		tx := &riscv.ZicsrTransaction{
			Inst:   riscv.Mnemonic(r.Inst),
			RdVal:  r.RdVal,
			Rs1Val: r.Rs1Val,
			Trap:   r.Trap,
		}
		if tx.Csr, err = narrow16(ext, "csr", r.Csr); err != nil {
			return nil, err
		}
		if tx.RdAddr, err = narrow8(ext, "rd", r.Rd); err != nil {
			return nil, err
		}
		if tx.Rs1Addr, err = narrow8(ext, "rs1", r.Rs1); err != nil {
			return nil, err
		}
		if tx.Uimm, err = narrow8(ext, "uimm", r.Uimm); err != nil {
			return nil, err
		}
		return tx, nil

	case riscv.ExtZbb:
		tx := &riscv.ZbbTransaction{
			Inst:   riscv.Mnemonic(r.Inst),
			RdVal:  r.RdVal,
			Rs1Val: r.Rs1Val,
			Rs2Val: r.Rs2Val,
			Trap:   r.Trap,
		}
		if tx.RdAddr, err = narrow8(ext, "rd", r.Rd); err != nil {
			return nil, err
		}
		if tx.Rs1Addr, err = narrow8(ext, "rs1", r.Rs1); err != nil {
			return nil, err
		}
		if tx.Rs2Addr, err = narrow8(ext, "rs2", r.Rs2); err != nil {
			return nil, err
		}
		if tx.Shamt, err = narrow8(ext, "shamt", r.Shamt); err != nil {
			return nil, err
		}
		return tx, nil

	case riscv.ExtZifencei:
		tx := &riscv.FenceTransaction{
			Inst:   riscv.Mnemonic(r.Inst),
			RdVal:  r.RdVal,
			Rs1Val: r.Rs1Val,
			Trap:   r.Trap,
		}
		if tx.Funct12, err = narrow16(ext, "funct12", r.Funct12); err != nil {
			return nil, err
		}
		if tx.RdAddr, err = narrow8(ext, "rd", r.Rd); err != nil {
			return nil, err
		}
		if tx.Rs1Addr, err = narrow8(ext, "rs1", r.Rs1); err != nil {
			return nil, err
		}
		return tx, nil
	}

	return nil, fmt.Errorf("unknown extension %q", r.Extension)
}

// ReplayStats summarizes one replay run.
type ReplayStats struct {
	Lines    int `json:"lines"`
	Samples  int `json:"samples"`
	Rejected int `json:"rejected"`
}

// ReplayTrace feeds every record of a JSON-lines trace file into the
// collector, standing in for the external instruction monitor. Blank lines
// and #-comments are skipped. With keepGoing false a malformed record stops
// the run; with keepGoing true it is logged, counted and skipped so report
// generation can still happen on a partially bad trace.
func ReplayTrace(fsys afero.Fs, path string, coll *collector.Collector, keepGoing bool) (ReplayStats, error) {
	var stats ReplayStats

	f, err := fsys.Open(path)
	if err != nil {
		return stats, fmt.Errorf("opening trace: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		stats.Lines++

		var rec TraceRecord
		err := json.Unmarshal([]byte(text), &rec)
		if err == nil {
			var tx riscv.Transaction
			if tx, err = rec.Transaction(); err == nil {
				err = coll.Write(tx)
			}
		}
		if err != nil {
			err = fmt.Errorf("%s:%d: %w", path, lineNo, err)
			if !keepGoing {
				return stats, err
			}
			GetLogger().Warnf("skipping record: %v", err)
			stats.Rejected++
			metrics.RecordReject()
			continue
		}

		stats.Samples++
		metrics.RecordSamples(1)
	}
	if err := scanner.Err(); err != nil {
		return stats, fmt.Errorf("reading trace: %w", err)
	}
	return stats, nil
}
