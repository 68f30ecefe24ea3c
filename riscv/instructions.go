package riscv

// Mnemonic is a decoded instruction's opcode tag. The valid set is fixed per
// extension; Transaction.Validate rejects a mnemonic outside its extension's
// set.
type Mnemonic string

// RV32I base integer instructions.
const (
	InstLUI   Mnemonic = "LUI"
	InstAUIPC Mnemonic = "AUIPC"
	InstJAL   Mnemonic = "JAL"
	InstJALR  Mnemonic = "JALR"
	InstBEQ   Mnemonic = "BEQ"
	InstBNE   Mnemonic = "BNE"
	InstBLT   Mnemonic = "BLT"
	InstBGE   Mnemonic = "BGE"
	InstBLTU  Mnemonic = "BLTU"
	InstBGEU  Mnemonic = "BGEU"
	InstLB    Mnemonic = "LB"
	InstLH    Mnemonic = "LH"
	InstLW    Mnemonic = "LW"
	InstLBU   Mnemonic = "LBU"
	InstLHU   Mnemonic = "LHU"
	InstSB    Mnemonic = "SB"
	InstSH    Mnemonic = "SH"
	InstSW    Mnemonic = "SW"
	InstADDI  Mnemonic = "ADDI"
	InstSLTI  Mnemonic = "SLTI"
	InstSLTIU Mnemonic = "SLTIU"
	InstXORI  Mnemonic = "XORI"
	InstORI   Mnemonic = "ORI"
	InstANDI  Mnemonic = "ANDI"
	InstSLLI  Mnemonic = "SLLI"
	InstSRLI  Mnemonic = "SRLI"
	InstSRAI  Mnemonic = "SRAI"
	InstADD   Mnemonic = "ADD"
	InstSUB   Mnemonic = "SUB"
	InstSLL   Mnemonic = "SLL"
	InstSLT   Mnemonic = "SLT"
	InstSLTU  Mnemonic = "SLTU"
	InstXOR   Mnemonic = "XOR"
	InstSRL   Mnemonic = "SRL"
	InstSRA   Mnemonic = "SRA"
	InstOR    Mnemonic = "OR"
	InstAND   Mnemonic = "AND"
	InstFENCE Mnemonic = "FENCE"
)

// RV32M multiply/divide instructions.
const (
	InstMUL    Mnemonic = "MUL"
	InstMULH   Mnemonic = "MULH"
	InstMULHSU Mnemonic = "MULHSU"
	InstMULHU  Mnemonic = "MULHU"
	InstDIV    Mnemonic = "DIV"
	InstDIVU   Mnemonic = "DIVU"
	InstREM    Mnemonic = "REM"
	InstREMU   Mnemonic = "REMU"
)

// RV32F single-precision floating-point instructions.
const (
	InstFLW     Mnemonic = "FLW"
	InstFSW     Mnemonic = "FSW"
	InstFMADDS  Mnemonic = "FMADD.S"
	InstFMSUBS  Mnemonic = "FMSUB.S"
	InstFNMSUBS Mnemonic = "FNMSUB.S"
	InstFNMADDS Mnemonic = "FNMADD.S"
	InstFADDS   Mnemonic = "FADD.S"
	InstFSUBS   Mnemonic = "FSUB.S"
	InstFMULS   Mnemonic = "FMUL.S"
	InstFDIVS   Mnemonic = "FDIV.S"
	InstFSQRTS  Mnemonic = "FSQRT.S"
	InstFSGNJS  Mnemonic = "FSGNJ.S"
	InstFSGNJNS Mnemonic = "FSGNJN.S"
	InstFSGNJXS Mnemonic = "FSGNJX.S"
	InstFMINS   Mnemonic = "FMIN.S"
	InstFMAXS   Mnemonic = "FMAX.S"
	InstFCVTWS  Mnemonic = "FCVT.W.S"
	InstFCVTWUS Mnemonic = "FCVT.WU.S"
	InstFMVXW   Mnemonic = "FMV.X.W"
	InstFEQS    Mnemonic = "FEQ.S"
	InstFLTS    Mnemonic = "FLT.S"
	InstFLES    Mnemonic = "FLE.S"
	InstFCLASSS Mnemonic = "FCLASS.S"
	InstFCVTSW  Mnemonic = "FCVT.S.W"
	InstFCVTSWU Mnemonic = "FCVT.S.WU"
	InstFMVWX   Mnemonic = "FMV.W.X"
)

// RV32V vector instructions tracked by the coverage model.
const (
	InstVSETVLI  Mnemonic = "VSETVLI"
	InstVSETVL   Mnemonic = "VSETVL"
	InstVLE8V    Mnemonic = "VLE8.V"
	InstVLE16V   Mnemonic = "VLE16.V"
	InstVLE32V   Mnemonic = "VLE32.V"
	InstVSE8V    Mnemonic = "VSE8.V"
	InstVSE16V   Mnemonic = "VSE16.V"
	InstVSE32V   Mnemonic = "VSE32.V"
	InstVADDVV   Mnemonic = "VADD.VV"
	InstVADDVX   Mnemonic = "VADD.VX"
	InstVADDVI   Mnemonic = "VADD.VI"
	InstVSUBVV   Mnemonic = "VSUB.VV"
	InstVSUBVX   Mnemonic = "VSUB.VX"
	InstVANDVV   Mnemonic = "VAND.VV"
	InstVORVV    Mnemonic = "VOR.VV"
	InstVXORVV   Mnemonic = "VXOR.VV"
	InstVMULVV   Mnemonic = "VMUL.VV"
	InstVMACCVV  Mnemonic = "VMACC.VV"
	InstVREDSUMV Mnemonic = "VREDSUM.VS"
)

// Zicsr control-and-status-register instructions.
const (
	InstCSRRW  Mnemonic = "CSRRW"
	InstCSRRS  Mnemonic = "CSRRS"
	InstCSRRC  Mnemonic = "CSRRC"
	InstCSRRWI Mnemonic = "CSRRWI"
	InstCSRRSI Mnemonic = "CSRRSI"
	InstCSRRCI Mnemonic = "CSRRCI"
)

// Zbb bit-manipulation instructions.
const (
	InstANDN  Mnemonic = "ANDN"
	InstORN   Mnemonic = "ORN"
	InstXNOR  Mnemonic = "XNOR"
	InstCLZ   Mnemonic = "CLZ"
	InstCTZ   Mnemonic = "CTZ"
	InstCPOP  Mnemonic = "CPOP"
	InstMAX   Mnemonic = "MAX"
	InstMAXU  Mnemonic = "MAXU"
	InstMIN   Mnemonic = "MIN"
	InstMINU  Mnemonic = "MINU"
	InstSEXTB Mnemonic = "SEXT.B"
	InstSEXTH Mnemonic = "SEXT.H"
	InstZEXTH Mnemonic = "ZEXT.H"
	InstROL   Mnemonic = "ROL"
	InstROR   Mnemonic = "ROR"
	InstRORI  Mnemonic = "RORI"
	InstORCB  Mnemonic = "ORC.B"
	InstREV8  Mnemonic = "REV8"
)

// Zifencei.
const (
	InstFENCEI Mnemonic = "FENCE.I"
)

var extensionMnemonics = map[Extension][]Mnemonic{
	ExtRV32I: {
		InstLUI, InstAUIPC, InstJAL, InstJALR,
		InstBEQ, InstBNE, InstBLT, InstBGE, InstBLTU, InstBGEU,
		InstLB, InstLH, InstLW, InstLBU, InstLHU, InstSB, InstSH, InstSW,
		InstADDI, InstSLTI, InstSLTIU, InstXORI, InstORI, InstANDI,
		InstSLLI, InstSRLI, InstSRAI,
		InstADD, InstSUB, InstSLL, InstSLT, InstSLTU, InstXOR,
		InstSRL, InstSRA, InstOR, InstAND, InstFENCE,
	},
	ExtRV32M: {
		InstMUL, InstMULH, InstMULHSU, InstMULHU,
		InstDIV, InstDIVU, InstREM, InstREMU,
	},
	ExtRV32F: {
		InstFLW, InstFSW,
		InstFMADDS, InstFMSUBS, InstFNMSUBS, InstFNMADDS,
		InstFADDS, InstFSUBS, InstFMULS, InstFDIVS, InstFSQRTS,
		InstFSGNJS, InstFSGNJNS, InstFSGNJXS, InstFMINS, InstFMAXS,
		InstFCVTWS, InstFCVTWUS, InstFMVXW,
		InstFEQS, InstFLTS, InstFLES, InstFCLASSS,
		InstFCVTSW, InstFCVTSWU, InstFMVWX,
	},
	ExtRV32V: {
		InstVSETVLI, InstVSETVL,
		InstVLE8V, InstVLE16V, InstVLE32V,
		InstVSE8V, InstVSE16V, InstVSE32V,
		InstVADDVV, InstVADDVX, InstVADDVI,
		InstVSUBVV, InstVSUBVX,
		InstVANDVV, InstVORVV, InstVXORVV,
		InstVMULVV, InstVMACCVV, InstVREDSUMV,
	},
	ExtZicsr: {
		InstCSRRW, InstCSRRS, InstCSRRC,
		InstCSRRWI, InstCSRRSI, InstCSRRCI,
	},
	ExtZbb: {
		InstANDN, InstORN, InstXNOR,
		InstCLZ, InstCTZ, InstCPOP,
		InstMAX, InstMAXU, InstMIN, InstMINU,
		InstSEXTB, InstSEXTH, InstZEXTH,
		InstROL, InstROR, InstRORI,
		InstORCB, InstREV8,
	},
	ExtZifencei: {InstFENCEI},
}

// mnemonicCodes assigns every known mnemonic a stable nonzero code so that
// instruction coverage points can bin on a numeric value. Codes follow the
// canonical extension order, so they never change between runs of one build.
var mnemonicCodes = func() map[Mnemonic]uint64 {
	codes := make(map[Mnemonic]uint64)
	next := uint64(1)
	for _, ext := range Extensions() {
		for _, m := range extensionMnemonics[ext] {
			if _, ok := codes[m]; !ok {
				codes[m] = next
				next++
			}
		}
	}
	return codes
}()

// Mnemonics returns the valid instruction set of an extension.
func (e Extension) Mnemonics() []Mnemonic {
	return append([]Mnemonic(nil), extensionMnemonics[e]...)
}

// Code returns the mnemonic's stable nonzero numeric code, or 0 for a
// mnemonic outside every extension's set.
func (m Mnemonic) Code() uint64 {
	return mnemonicCodes[m]
}

func (e Extension) hasMnemonic(m Mnemonic) bool {
	for _, known := range extensionMnemonics[e] {
		if known == m {
			return true
		}
	}
	return false
}
