package types

import (
	"time"
)

// FlowID identifies one of the two onboarding wizards.
type FlowID string

const (
	// FlowPublic is the unauthenticated intake wizard.
	FlowPublic FlowID = "public"
	// FlowPlan is the authenticated plan-selection wizard.
	FlowPlan FlowID = "plan"
)

// CreditorCategory classifies a creditor's product line.
type CreditorCategory string

const (
	CategoryCreditCard   CreditorCategory = "credit_card"
	CategoryPersonalLoan CreditorCategory = "personal_loan"
	CategoryPaydayLoan   CreditorCategory = "payday_loan"
	CategoryStoreCard    CreditorCategory = "store_card"
	CategoryOverdraft    CreditorCategory = "overdraft"
	CategoryMortgage     CreditorCategory = "mortgage"
	CategoryOther        CreditorCategory = "other"
)

// Creditor is a catalog entry a client can select during intake.
type Creditor struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Category CreditorCategory `json:"category"`
	Active   bool             `json:"active"`
}

// CreditorSelection is the payload for the public flow's creditors step.
type CreditorSelection struct {
	SelectedCreditorIDs []string `json:"selected_creditor_ids"`
	OtherCreditors      []string `json:"other_creditors,omitempty"`
}

// ContactInfo is the payload for the public flow's contact step.
type ContactInfo struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// DateOfBirth carries the three raw form fields from the dob step.
// Values stay strings until validated; the screens submit them unparsed.
type DateOfBirth struct {
	Day   string `json:"day"`
	Month string `json:"month"`
	Year  string `json:"year"`
}

// Address is a single UK address.
type Address struct {
	Line1    string `json:"line1"`
	Line2    string `json:"line2,omitempty"`
	City     string `json:"city"`
	County   string `json:"county,omitempty"`
	Postcode string `json:"postcode"`
}

// AddressHistory is the payload for the address step. A previous address is
// required when the client has lived at the current one for under 3 years.
type AddressHistory struct {
	CurrentAddress  Address  `json:"current_address"`
	LivedThreeYears bool     `json:"lived_3_years"`
	PreviousAddress *Address `json:"previous_address,omitempty"`
}

// DebtStatus enumerates the state of a debt as reported by the client.
type DebtStatus string

const (
	DebtStatusActive    DebtStatus = "active"
	DebtStatusInDefault DebtStatus = "in_default"
	DebtStatusCCJIssued DebtStatus = "ccj_issued"
	DebtStatusOther     DebtStatus = "other"

	// Statuses used by records surfaced through the credit-file search
	// variant rather than manual entry.
	DebtStatusDefault DebtStatus = "default"
	DebtStatusSettled DebtStatus = "settled"
)

// AccountType enumerates the product category of a debt account.
type AccountType string

const (
	AccountCreditCard   AccountType = "credit_card"
	AccountPersonalLoan AccountType = "personal_loan"
	AccountOverdraft    AccountType = "overdraft"
	AccountMortgage     AccountType = "mortgage"
	AccountStoreCard    AccountType = "store_card"
	AccountPaydayLoan   AccountType = "payday_loan"
	AccountOther        AccountType = "other"
)

// DebtRecord is a single debt owed to a creditor. Records are owned by the
// debt-details slot; downstream steps aggregate them but never mutate them.
type DebtRecord struct {
	ID                string      `json:"id"`
	CreditorID        string      `json:"creditor_id,omitempty"`
	CreditorName      string      `json:"creditor_name"`
	AccountNumber     string      `json:"account_number,omitempty"`
	ApproximateAmount float64     `json:"approximate_amount"`
	DebtStatus        DebtStatus  `json:"debt_status"`
	AccountType       AccountType `json:"account_type"`
}

// DebtDetails is the payload for the debt-details step.
type DebtDetails struct {
	Debts []DebtRecord `json:"debts"`
}

// Document codes a client must acknowledge before completing intake.
const (
	DocPrivacyNotice    = "PRIV-001"
	DocScopeOfServices  = "SCOPE-001"
	DocRegulatoryStatus = "STAT-001"
)

// RequiredAcknowledgements lists the documents the review step demands.
func RequiredAcknowledgements() []string {
	return []string{DocPrivacyNotice, DocScopeOfServices, DocRegulatoryStatus}
}

// DocumentAcknowledgement records that a client has read a named document.
type DocumentAcknowledgement struct {
	DocumentCode   string     `json:"document_code"`
	DocumentName   string     `json:"document_name,omitempty"`
	Acknowledged   bool       `json:"acknowledged"`
	AcknowledgedAt *time.Time `json:"acknowledged_at,omitempty"`
	IPAddress      string     `json:"ip_address,omitempty"`
}

// ReviewPayload is the payload for the public flow's review step.
type ReviewPayload struct {
	Acknowledgements []DocumentAcknowledgement `json:"document_acknowledgements"`
}

// InfoPayload is the payload for the purely informational info step.
type InfoPayload struct {
	Viewed bool `json:"viewed"`
}

// --- Plan flow payloads ---

// FeeAcknowledgement is the payload for the plan flow's fee step.
type FeeAcknowledgement struct {
	FeeAcknowledged bool       `json:"fee_acknowledged"`
	AcknowledgedAt  *time.Time `json:"acknowledged_at,omitempty"`
}

// Pathway classifies which plan-selection route the client must follow.
type Pathway string

const (
	Pathway12In12          Pathway = "12_in_12"
	PathwayRegulatedCredit Pathway = "regulated_credit"
	PathwayFeeRelief       Pathway = "fee_relief"
)

// Valid reports whether p is one of the three known pathways.
func (p Pathway) Valid() bool {
	switch p {
	case Pathway12In12, PathwayRegulatedCredit, PathwayFeeRelief:
		return true
	}
	return false
}

// AffordabilityAssessment is the payload for the affordability step.
// DisposableIncome may be negative.
type AffordabilityAssessment struct {
	MonthlyIncome    float64 `json:"total_monthly_income"`
	MonthlyExpenses  float64 `json:"total_monthly_expenses"`
	DisposableIncome float64 `json:"disposable_income"`
	Pathway          Pathway `json:"pathway,omitempty"`
}

// EmploymentStatus enumerates employment for the detailed assessment.
type EmploymentStatus string

const (
	EmploymentEmployed     EmploymentStatus = "employed"
	EmploymentSelfEmployed EmploymentStatus = "self_employed"
	EmploymentUnemployed   EmploymentStatus = "unemployed"
	EmploymentRetired      EmploymentStatus = "retired"
)

// HousingType enumerates housing for the detailed assessment.
type HousingType string

const (
	HousingRent             HousingType = "rent"
	HousingMortgage         HousingType = "mortgage"
	HousingOwned            HousingType = "owned"
	HousingLivingWithFamily HousingType = "living_with_family"
)

// DetailedAffordability is the payload for the detailed-affordability step,
// required only on the regulated_credit pathway.
type DetailedAffordability struct {
	EmploymentStatus    EmploymentStatus `json:"employment_status"`
	HousingType         HousingType      `json:"housing_type"`
	NumDependents       int              `json:"num_dependents,omitempty"`
	InformationAccurate bool             `json:"information_accurate"`
	VerifiedAt          *time.Time       `json:"verified_at,omitempty"`
}

// AgreementSignature is a typed-name signature over one or more documents.
type AgreementSignature struct {
	FullName      string     `json:"full_name"`
	SignedAt      *time.Time `json:"signed_at,omitempty"`
	DocumentCodes []string   `json:"document_codes,omitempty"`
}

// AgreementsPayload is the payload for the agreements step. The step stays
// incomplete until the signature is non-empty and every consent is true.
type AgreementsPayload struct {
	Signature        AgreementSignature `json:"signature"`
	TermsAccepted    bool               `json:"terms_accepted"`
	AuthorityGranted bool               `json:"authority_granted"`
}

// PaymentMethod enumerates supported payment methods.
type PaymentMethod string

const (
	PaymentDirectDebit  PaymentMethod = "direct_debit"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
	PaymentDebitCard    PaymentMethod = "debit_card"
)

// PaymentDetails is the payload for the payment step.
type PaymentDetails struct {
	Method            PaymentMethod `json:"method"`
	SortCode          string        `json:"sort_code,omitempty"`
	AccountNumber     string        `json:"account_number,omitempty"`
	AccountHolderName string        `json:"account_holder_name,omitempty"`
	BankName          string        `json:"bank_name,omitempty"`
	Reference         string        `json:"reference,omitempty"`
	CardLast4         string        `json:"card_last_4,omitempty"`
	CardExpiry        string        `json:"card_expiry,omitempty"`
	MandateSigned     bool          `json:"mandate_signed"`
	MandateSignedAt   *time.Time    `json:"mandate_signed_at,omitempty"`
}

// IDVerification is the payload for the id-verification step.
type IDVerification struct {
	IDDocumentType   string `json:"id_document_type"`
	IDDocumentRef    string `json:"id_document_ref"`
	ProofType        string `json:"proof_type"`
	ProofDocumentRef string `json:"proof_document_ref"`
}

// --- Derived values (never stored authoritatively) ---

// FeeCalculation is the service fee derived from total debt. FinalFee is a
// whole currency amount clamped to the configured floor and ceiling.
type FeeCalculation struct {
	TotalDebt     float64 `json:"total_debt"`
	FeePercentage float64 `json:"fee_percentage"`
	CalculatedFee float64 `json:"calculated_fee"`
	FinalFee      int     `json:"final_fee"`
	MinCapped     bool    `json:"min_capped"`
	MaxCapped     bool    `json:"max_capped"`
}

// PaymentPlanOption is one of the fixed payment durations offered for a fee.
type PaymentPlanOption struct {
	DurationMonths int    `json:"duration_months"`
	MonthlyAmount  int    `json:"monthly_amount"`
	TotalAmount    int    `json:"total_amount"`
	Label          string `json:"label"`
}

// AffordabilityCheck is the result of the duration-search affordability
// policy. This policy is independent of pathway classification and uses its
// own disposable-income factor.
type AffordabilityCheck struct {
	MonthlyDisposableIncome float64 `json:"monthly_disposable_income"`
	AffordabilityCap        int     `json:"affordability_cap"`
	MaxAffordableMonthly    int     `json:"max_affordable_monthly"`
	MinimumDuration         int     `json:"minimum_duration"`
	IsAffordable            bool    `json:"is_affordable"`
	Reason                  string  `json:"reason,omitempty"`
}

// FlowSummary aggregates the intake ledger for the review screen.
type FlowSummary struct {
	TotalDebt     float64 `json:"total_debt"`
	DebtCount     int     `json:"debt_count"`
	CreditorCount int     `json:"creditor_count"`
}
