package models

// LocalSnapshot is the blob exchanged with the desktop shell's save/load
// commands.
type LocalSnapshot struct {
	CustomerFormData CustomerSnapshot `json:"customerFormData"`
	ConsultFormData  ConsultLine      `json:"consultFormData"`
	TableData        []LedgerRow      `json:"tableData"`
}
