// internal/models/patch.go
package models

// Patch is the unit of mutation committed to the store. Nil fields are left
// untouched; the store applies the merge and replaces the whole record
// atomically, refreshing UpdatedAt.
type Patch struct {
	Status *ApplicationStatus

	EDDNotes      *string
	ClearEDDNotes bool

	ApproverChecklist   *ApproverChecklist
	DisbursementDetails *DisbursementDetails

	LoanAmount *int64
	Tenor      *int

	Resubmission *ResubmissionData
}

// Apply merges the patch into app in place. The store calls this under its
// own synchronization; nothing else should.
func (p *Patch) Apply(app *Application) {
	if p.Status != nil {
		app.Status = *p.Status
	}
	if p.EDDNotes != nil {
		app.EDDNotes = *p.EDDNotes
	}
	if p.ClearEDDNotes {
		app.EDDNotes = ""
	}
	if p.ApproverChecklist != nil {
		cl := *p.ApproverChecklist
		app.ApproverChecklist = &cl
	}
	if p.DisbursementDetails != nil {
		dd := *p.DisbursementDetails
		app.DisbursementDetails = &dd
	}
	if p.LoanAmount != nil {
		app.LoanAmount = *p.LoanAmount
	}
	if p.Tenor != nil {
		app.Tenor = *p.Tenor
	}
	if r := p.Resubmission; r != nil {
		app.CustomerName = r.CustomerName
		app.NIK = r.NIK
		app.LoanAmount = r.LoanAmount
		app.Tenor = r.Tenor
		app.NationalIDFile = r.NationalIDFile
		app.PKSNumber = r.PKSNumber
		app.PKSCompanyName = r.PKSCompanyName
		app.CreditProduct = r.CreditProduct
		app.DebtorOccupation = r.DebtorOccupation
		app.Income = r.Income
		app.YearsOfService = r.YearsOfService
		app.NPWPFile = r.NPWPFile
		if r.BankingInfo != nil {
			bi := *r.BankingInfo
			app.BankingInfo = &bi
		}
	}
}

// StatusPtr is a convenience for building patches.
func StatusPtr(s ApplicationStatus) *ApplicationStatus { return &s }

// StringPtr is a convenience for building patches.
func StringPtr(s string) *string { return &s }

// Int64Ptr is a convenience for building patches.
func Int64Ptr(v int64) *int64 { return &v }

// IntPtr is a convenience for building patches.
func IntPtr(v int) *int { return &v }
