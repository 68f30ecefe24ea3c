package riscv

import "fmt"

// Transaction is implemented by every extension's decoded-instruction record.
// Validate enforces the exact ISA field widths; a transaction that fails it
// must never reach a coverage sample.
type Transaction interface {
	Extension() Extension
	Validate() error
}

func checkWidth(ext Extension, field string, v uint64, bits uint) error {
	if v>>bits != 0 {
		return fmt.Errorf("%s: field %s value %#x does not fit in %d bits", ext, field, v, bits)
	}
	return nil
}

func checkInst(ext Extension, m Mnemonic) error {
	if m == "" {
		return fmt.Errorf("%s: missing instruction mnemonic", ext)
	}
	if !ext.hasMnemonic(m) {
		return fmt.Errorf("%s: instruction %s is not part of the extension", ext, m)
	}
	return nil
}

// RV32ITransaction records one retired base-integer instruction. Imm is the
// already sign-extended immediate; its encoded width varies with the
// instruction format, so only the register fields carry width checks.
type RV32ITransaction struct {
	Inst    Mnemonic
	RdAddr  uint8 // 5 bits
	Rs1Addr uint8 // 5 bits
	Rs2Addr uint8 // 5 bits
	RdVal   uint32
	Rs1Val  uint32
	Rs2Val  uint32
	Imm     int32
	Trap    bool
}

func (t *RV32ITransaction) Extension() Extension { return ExtRV32I }

func (t *RV32ITransaction) Validate() error {
	if err := checkInst(ExtRV32I, t.Inst); err != nil {
		return err
	}
	if err := checkWidth(ExtRV32I, "rd", uint64(t.RdAddr), 5); err != nil {
		return err
	}
	if err := checkWidth(ExtRV32I, "rs1", uint64(t.Rs1Addr), 5); err != nil {
		return err
	}
	return checkWidth(ExtRV32I, "rs2", uint64(t.Rs2Addr), 5)
}

// CopyFrom replaces the held contents with a structural copy of src.
func (t *RV32ITransaction) CopyFrom(src *RV32ITransaction) { *t = *src }

// RV32MTransaction records one retired multiply/divide instruction.
type RV32MTransaction struct {
	Inst    Mnemonic
	RdAddr  uint8 // 5 bits
	Rs1Addr uint8 // 5 bits
	Rs2Addr uint8 // 5 bits
	RdVal   uint32
	Rs1Val  uint32
	Rs2Val  uint32
	Trap    bool
}

func (t *RV32MTransaction) Extension() Extension { return ExtRV32M }

func (t *RV32MTransaction) Validate() error {
	if err := checkInst(ExtRV32M, t.Inst); err != nil {
		return err
	}
	if err := checkWidth(ExtRV32M, "rd", uint64(t.RdAddr), 5); err != nil {
		return err
	}
	if err := checkWidth(ExtRV32M, "rs1", uint64(t.Rs1Addr), 5); err != nil {
		return err
	}
	return checkWidth(ExtRV32M, "rs2", uint64(t.Rs2Addr), 5)
}

// CopyFrom replaces the held contents with a structural copy of src.
func (t *RV32MTransaction) CopyFrom(src *RV32MTransaction) { *t = *src }

// RV32FTransaction records one retired single-precision floating-point
// instruction. Register values are raw IEEE 754 bit patterns.
type RV32FTransaction struct {
	Inst    Mnemonic
	FdAddr  uint8 // 5 bits
	Fs1Addr uint8 // 5 bits
	Fs2Addr uint8 // 5 bits
	FdVal   uint32
	Fs1Val  uint32
	Fs2Val  uint32
	Rm      uint8 // 3 bits, rounding mode
	Trap    bool
}

func (t *RV32FTransaction) Extension() Extension { return ExtRV32F }

func (t *RV32FTransaction) Validate() error {
	if err := checkInst(ExtRV32F, t.Inst); err != nil {
		return err
	}
	if err := checkWidth(ExtRV32F, "fd", uint64(t.FdAddr), 5); err != nil {
		return err
	}
	if err := checkWidth(ExtRV32F, "fs1", uint64(t.Fs1Addr), 5); err != nil {
		return err
	}
	if err := checkWidth(ExtRV32F, "fs2", uint64(t.Fs2Addr), 5); err != nil {
		return err
	}
	return checkWidth(ExtRV32F, "rm", uint64(t.Rm), 3)
}

// CopyFrom replaces the held contents with a structural copy of src.
func (t *RV32FTransaction) CopyFrom(src *RV32FTransaction) { *t = *src }

// RV32VTransaction records one retired vector instruction along with the
// element-width and group-multiplier configuration it retired under.
type RV32VTransaction struct {
	Inst    Mnemonic
	VdAddr  uint8 // 5 bits
	Vs1Addr uint8 // 5 bits
	Vs2Addr uint8 // 5 bits
	Sew     uint8 // 3 bits, vsew encoding
	Lmul    uint8 // 3 bits, vlmul encoding
	Trap    bool
}

func (t *RV32VTransaction) Extension() Extension { return ExtRV32V }

func (t *RV32VTransaction) Validate() error {
	if err := checkInst(ExtRV32V, t.Inst); err != nil {
		return err
	}
	if err := checkWidth(ExtRV32V, "vd", uint64(t.VdAddr), 5); err != nil {
		return err
	}
	if err := checkWidth(ExtRV32V, "vs1", uint64(t.Vs1Addr), 5); err != nil {
		return err
	}
	if err := checkWidth(ExtRV32V, "vs2", uint64(t.Vs2Addr), 5); err != nil {
		return err
	}
	if err := checkWidth(ExtRV32V, "sew", uint64(t.Sew), 3); err != nil {
		return err
	}
	return checkWidth(ExtRV32V, "lmul", uint64(t.Lmul), 3)
}

// CopyFrom replaces the held contents with a structural copy of src.
func (t *RV32VTransaction) CopyFrom(src *RV32VTransaction) { *t = *src }

// ZicsrTransaction records one retired CSR instruction. Uimm carries the
// zero-extended immediate of the CSRR*I forms and is 0 for the register
// forms.
type ZicsrTransaction struct {
	Inst    Mnemonic
	Csr     uint16 // 12 bits
	RdAddr  uint8  // 5 bits
	Rs1Addr uint8  // 5 bits
	RdVal   uint32
	Rs1Val  uint32
	Uimm    uint8 // 5 bits
	Trap    bool
}

func (t *ZicsrTransaction) Extension() Extension { return ExtZicsr }

func (t *ZicsrTransaction) Validate() error {
	if err := checkInst(ExtZicsr, t.Inst); err != nil {
		return err
	}
	if err := checkWidth(ExtZicsr, "csr", uint64(t.Csr), 12); err != nil {
		return err
	}
	if err := checkWidth(ExtZicsr, "rd", uint64(t.RdAddr), 5); err != nil {
		return err
	}
	if err := checkWidth(ExtZicsr, "rs1", uint64(t.Rs1Addr), 5); err != nil {
		return err
	}
	return checkWidth(ExtZicsr, "uimm", uint64(t.Uimm), 5)
}

// CopyFrom replaces the held contents with a structural copy of src.
func (t *ZicsrTransaction) CopyFrom(src *ZicsrTransaction) { *t = *src }

// ZbbTransaction records one retired bit-manipulation instruction. Shamt is
// meaningful for the rotate-immediate form and 0 otherwise.
type ZbbTransaction struct {
	Inst    Mnemonic
	RdAddr  uint8 // 5 bits
	Rs1Addr uint8 // 5 bits
	Rs2Addr uint8 // 5 bits
	RdVal   uint32
	Rs1Val  uint32
	Rs2Val  uint32
	Shamt   uint8 // 5 bits
	Trap    bool
}

func (t *ZbbTransaction) Extension() Extension { return ExtZbb }

func (t *ZbbTransaction) Validate() error {
	if err := checkInst(ExtZbb, t.Inst); err != nil {
		return err
	}
	if err := checkWidth(ExtZbb, "rd", uint64(t.RdAddr), 5); err != nil {
		return err
	}
	if err := checkWidth(ExtZbb, "rs1", uint64(t.Rs1Addr), 5); err != nil {
		return err
	}
	if err := checkWidth(ExtZbb, "rs2", uint64(t.Rs2Addr), 5); err != nil {
		return err
	}
	return checkWidth(ExtZbb, "shamt", uint64(t.Shamt), 5)
}

// CopyFrom replaces the held contents with a structural copy of src.
func (t *ZbbTransaction) CopyFrom(src *ZbbTransaction) { *t = *src }

// FenceTransaction records one retired FENCE.I instruction.
type FenceTransaction struct {
	Inst    Mnemonic
	Funct12 uint16 // 12 bits
	RdAddr  uint8  // 5 bits
	Rs1Addr uint8  // 5 bits
	RdVal   uint32
	Rs1Val  uint32
	Trap    bool
}

func (t *FenceTransaction) Extension() Extension { return ExtZifencei }

func (t *FenceTransaction) Validate() error {
	if err := checkInst(ExtZifencei, t.Inst); err != nil {
		return err
	}
	if err := checkWidth(ExtZifencei, "funct12", uint64(t.Funct12), 12); err != nil {
		return err
	}
	if err := checkWidth(ExtZifencei, "rd", uint64(t.RdAddr), 5); err != nil {
		return err
	}
	return checkWidth(ExtZifencei, "rs1", uint64(t.Rs1Addr), 5)
}

// CopyFrom replaces the held contents with a structural copy of src.
func (t *FenceTransaction) CopyFrom(src *FenceTransaction) { *t = *src }
