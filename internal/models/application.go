// internal/models/application.go
package models

import "time"

// Application is the central loan origination record. It is owned by the
// store; the workflow engine never mutates it in place and expresses every
// change as a Patch.
type Application struct {
	ID           string            `json:"id"`
	PIID         string            `json:"piid,omitempty"`
	Status       ApplicationStatus `json:"status"`
	CustomerID   string            `json:"customerId,omitempty"`
	CustomerName string            `json:"customerName"`
	NIK          string            `json:"nik,omitempty"`
	LoanAmount   int64             `json:"loanAmount"`
	Tenor        int               `json:"tenor"` // months
	SalesID      string            `json:"salesId,omitempty"`

	PKSNumber      string `json:"pksNumber,omitempty"`
	PKSCompanyName string `json:"pksCompanyName,omitempty"`
	CreditProduct  string `json:"creditProduct,omitempty"`

	DebtorOccupation string `json:"debtorOccupation,omitempty"`
	Income           int64  `json:"income,omitempty"`
	YearsOfService   int    `json:"yearsOfService,omitempty"`
	NationalIDFile   string `json:"nationalIdFile,omitempty"`
	NPWPFile         string `json:"npwpFile,omitempty"`

	BankingInfo *BankingInfo `json:"bankingInfo,omitempty"`

	EDDNotes            string               `json:"eddNotes,omitempty"`
	ApproverChecklist   *ApproverChecklist   `json:"approverChecklist,omitempty"`
	DisbursementDetails *DisbursementDetails `json:"disbursementDetails,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Clone returns a deep copy, detaching the nested pointers so a caller can
// mutate the copy without racing the store's record.
func (a *Application) Clone() *Application {
	cp := *a
	if a.BankingInfo != nil {
		bi := *a.BankingInfo
		cp.BankingInfo = &bi
	}
	if a.ApproverChecklist != nil {
		cl := *a.ApproverChecklist
		cp.ApproverChecklist = &cl
	}
	if a.DisbursementDetails != nil {
		dd := *a.DisbursementDetails
		cp.DisbursementDetails = &dd
	}
	return &cp
}

// BankingInfo carries the customer's account details captured at submission.
type BankingInfo struct {
	BankName             string `json:"bankName"`
	AccountNumber        string `json:"accountNumber"`
	PayrollAccount       bool   `json:"payrollAccount"`
	PayrollAccountNumber string `json:"payrollAccountNumber,omitempty"`
	ExistingLoans        string `json:"existingLoans,omitempty"`
}

// ChecklistKey names one of the four approver checklist flags.
type ChecklistKey string

const (
	ChecklistCreditScore         ChecklistKey = "creditScoreChecked"
	ChecklistDocumentsVerified   ChecklistKey = "documentsVerified"
	ChecklistCollateralValuation ChecklistKey = "collateralValuation"
	ChecklistComplianceCheck     ChecklistKey = "complianceCheck"
)

// ChecklistKeys lists the checklist flags in display order.
var ChecklistKeys = []ChecklistKey{
	ChecklistCreditScore,
	ChecklistDocumentsVerified,
	ChecklistCollateralValuation,
	ChecklistComplianceCheck,
}

// ApproverChecklist is the four-flag precondition gating final approval.
type ApproverChecklist struct {
	CreditScoreChecked  bool `json:"creditScoreChecked"`
	DocumentsVerified   bool `json:"documentsVerified"`
	CollateralValuation bool `json:"collateralValuation"`
	ComplianceCheck     bool `json:"complianceCheck"`
}

// AllChecked reports whether every flag is set.
func (c *ApproverChecklist) AllChecked() bool {
	if c == nil {
		return false
	}
	return c.CreditScoreChecked && c.DocumentsVerified && c.CollateralValuation && c.ComplianceCheck
}

// Set flips a single flag by key. Unknown keys are ignored by the caller's
// validation before this is reached.
func (c *ApproverChecklist) Set(key ChecklistKey, value bool) {
	switch key {
	case ChecklistCreditScore:
		c.CreditScoreChecked = value
	case ChecklistDocumentsVerified:
		c.DocumentsVerified = value
	case ChecklistCollateralValuation:
		c.CollateralValuation = value
	case ChecklistComplianceCheck:
		c.ComplianceCheck = value
	}
}

// DisbursementDetails is supplied by Operation on the terminal Disbursed
// transition. Notes is the only optional field.
type DisbursementDetails struct {
	BankName      string `json:"bankName"`
	AccountNumber string `json:"accountNumber"`
	Amount        int64  `json:"amount"`
	Date          string `json:"date"`
	Notes         string `json:"notes,omitempty"`
}

// ResubmissionData is the full edited payload Sales supplies when returning
// an application from EDD Required to the front of the pipeline.
type ResubmissionData struct {
	CustomerName     string       `json:"customerName"`
	NIK              string       `json:"nik"`
	LoanAmount       int64        `json:"loanAmount"`
	Tenor            int          `json:"tenor"`
	NationalIDFile   string       `json:"nationalIdFile,omitempty"`
	PKSNumber        string       `json:"pksNumber,omitempty"`
	PKSCompanyName   string       `json:"pksCompanyName,omitempty"`
	CreditProduct    string       `json:"creditProduct,omitempty"`
	DebtorOccupation string       `json:"debtorOccupation,omitempty"`
	Income           int64        `json:"income,omitempty"`
	YearsOfService   int          `json:"yearsOfService,omitempty"`
	NPWPFile         string       `json:"npwpFile,omitempty"`
	BankingInfo      *BankingInfo `json:"bankingInfo,omitempty"`
}
