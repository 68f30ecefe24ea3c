package riscv

// Machine-mode CSR addresses tracked by the zicsr coverage model.
const (
	CsrMstatus  uint16 = 0x300
	CsrMisa     uint16 = 0x301
	CsrMie      uint16 = 0x304
	CsrMtvec    uint16 = 0x305
	CsrMscratch uint16 = 0x340
	CsrMepc     uint16 = 0x341
	CsrMcause   uint16 = 0x342
	CsrMtval    uint16 = 0x343
	CsrMip      uint16 = 0x344
	CsrMcycle   uint16 = 0xB00
	CsrMinstret uint16 = 0xB02
)

// NamedCSRs maps the tracked CSR addresses to their architectural names, in
// a fixed order usable as a bin table.
func NamedCSRs() []struct {
	Name string
	Addr uint16
} {
	return []struct {
		Name string
		Addr uint16
	}{
		{"mstatus", CsrMstatus},
		{"misa", CsrMisa},
		{"mie", CsrMie},
		{"mtvec", CsrMtvec},
		{"mscratch", CsrMscratch},
		{"mepc", CsrMepc},
		{"mcause", CsrMcause},
		{"mtval", CsrMtval},
		{"mip", CsrMip},
		{"mcycle", CsrMcycle},
		{"minstret", CsrMinstret},
	}
}
