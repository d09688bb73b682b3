package validation

import (
	"fmt"
	"time"

	"github.com/debtflyhq/debtfly/internal/types"
)

// MinimumAge is the youngest a client may be to use the service.
const MinimumAge = 18

// CreditorSelectionErrors validates the creditors step payload.
func CreditorSelectionErrors(sel types.CreditorSelection) []ValidationError {
	if len(sel.SelectedCreditorIDs) == 0 && len(sel.OtherCreditors) == 0 {
		return []ValidationError{{
			Field:   "selected_creditor_ids",
			Message: "select at least one creditor",
		}}
	}
	return nil
}

// ContactInfoErrors validates the contact step payload.
func ContactInfoErrors(info types.ContactInfo) []ValidationError {
	var c Collector
	c.Add(ValidateRequired("first_name", info.FirstName))
	c.Add(ValidateRequired("last_name", info.LastName))
	if err := ValidateRequired("email", info.Email); err != nil {
		c.Add(err)
	} else {
		c.Add(ValidateEmail("email", info.Email))
	}
	if err := ValidateRequired("phone", info.Phone); err != nil {
		c.Add(err)
	} else {
		c.Add(ValidatePhone("phone", info.Phone))
	}
	return c.Errors()
}

// DateOfBirthErrors validates the dob step payload, including the minimum
// age requirement measured against now.
func DateOfBirthErrors(dob types.DateOfBirth, now time.Time) []ValidationError {
	birth, err := ParseDate(dob.Day, dob.Month, dob.Year, now)
	if err != nil {
		return []ValidationError{*err}
	}
	if AgeAt(birth, now) < MinimumAge {
		return []ValidationError{{
			Field:   "year",
			Message: "you must be at least 18 years old",
		}}
	}
	return nil
}

// addressErrors validates a single address under a field prefix.
func addressErrors(prefix string, addr types.Address) []ValidationError {
	var c Collector
	c.Add(ValidateRequired(prefix+".line1", addr.Line1))
	c.Add(ValidateRequired(prefix+".city", addr.City))
	c.Add(ValidateRequired(prefix+".postcode", addr.Postcode))
	return c.Errors()
}

// AddressHistoryErrors validates the address step payload. A previous
// address is required when the client has lived under 3 years at the current
// one.
func AddressHistoryErrors(hist types.AddressHistory) []ValidationError {
	errs := addressErrors("current_address", hist.CurrentAddress)
	if !hist.LivedThreeYears {
		if hist.PreviousAddress == nil {
			errs = append(errs, ValidationError{
				Field:   "previous_address",
				Message: "is required when living under 3 years at current address",
			})
		} else {
			errs = append(errs, addressErrors("previous_address", *hist.PreviousAddress)...)
		}
	}
	return errs
}

var debtStatuses = []string{
	string(types.DebtStatusActive),
	string(types.DebtStatusInDefault),
	string(types.DebtStatusCCJIssued),
	string(types.DebtStatusOther),
	string(types.DebtStatusDefault),
	string(types.DebtStatusSettled),
}

var accountTypes = []string{
	string(types.AccountCreditCard),
	string(types.AccountPersonalLoan),
	string(types.AccountOverdraft),
	string(types.AccountMortgage),
	string(types.AccountStoreCard),
	string(types.AccountPaydayLoan),
	string(types.AccountOther),
}

// DebtDetailsErrors validates the debt-details step payload: at least one
// record, every record with a positive amount, a status, and a type.
func DebtDetailsErrors(details types.DebtDetails) []ValidationError {
	if len(details.Debts) == 0 {
		return []ValidationError{{
			Field:   "debts",
			Message: "add at least one debt",
		}}
	}

	var c Collector
	for i, debt := range details.Debts {
		prefix := indexedField("debts", i)
		c.Add(ValidatePositive(prefix+".approximate_amount", debt.ApproximateAmount))
		c.Add(ValidateEnum(prefix+".debt_status", string(debt.DebtStatus), debtStatuses))
		c.Add(ValidateEnum(prefix+".account_type", string(debt.AccountType), accountTypes))
	}
	return c.Errors()
}

// ReviewErrors validates the review step payload: every required document
// must be acknowledged.
func ReviewErrors(review types.ReviewPayload) []ValidationError {
	var c Collector
	for _, code := range types.RequiredAcknowledgements() {
		if !acknowledged(review.Acknowledgements, code) {
			c.Add(&ValidationError{
				Field:   "document_acknowledgements",
				Message: code + " must be acknowledged",
			})
		}
	}
	return c.Errors()
}

func acknowledged(acks []types.DocumentAcknowledgement, code string) bool {
	for _, ack := range acks {
		if ack.DocumentCode == code && ack.Acknowledged {
			return true
		}
	}
	return false
}

// FeeAcknowledgementErrors validates the plan flow's fee step payload.
func FeeAcknowledgementErrors(ack types.FeeAcknowledgement) []ValidationError {
	if !ack.FeeAcknowledged {
		return []ValidationError{{
			Field:   "fee_acknowledged",
			Message: "the fee must be acknowledged",
		}}
	}
	return nil
}

// AffordabilityErrors validates the affordability step payload: both totals
// present and a pathway derived.
func AffordabilityErrors(a types.AffordabilityAssessment) []ValidationError {
	var c Collector
	c.Add(ValidatePositive("total_monthly_income", a.MonthlyIncome))
	c.Add(ValidatePositive("total_monthly_expenses", a.MonthlyExpenses))
	if !a.Pathway.Valid() {
		c.Add(&ValidationError{
			Field:   "pathway",
			Message: "must be derived before saving",
		})
	}
	return c.Errors()
}

var employmentStatuses = []string{
	string(types.EmploymentEmployed),
	string(types.EmploymentSelfEmployed),
	string(types.EmploymentUnemployed),
	string(types.EmploymentRetired),
}

var housingTypes = []string{
	string(types.HousingRent),
	string(types.HousingMortgage),
	string(types.HousingOwned),
	string(types.HousingLivingWithFamily),
}

// DetailedAffordabilityErrors validates the detailed-affordability step
// payload required on the regulated_credit pathway.
func DetailedAffordabilityErrors(d types.DetailedAffordability) []ValidationError {
	var c Collector
	c.Add(ValidateEnum("employment_status", string(d.EmploymentStatus), employmentStatuses))
	c.Add(ValidateEnum("housing_type", string(d.HousingType), housingTypes))
	if !d.InformationAccurate {
		c.Add(&ValidationError{
			Field:   "information_accurate",
			Message: "accuracy of the information must be confirmed",
		})
	}
	return c.Errors()
}

// AgreementsErrors validates the agreements step payload: a non-empty typed
// signature and every consent granted.
func AgreementsErrors(a types.AgreementsPayload) []ValidationError {
	var c Collector
	c.Add(ValidateRequired("signature.full_name", a.Signature.FullName))
	if !a.TermsAccepted {
		c.Add(&ValidationError{Field: "terms_accepted", Message: "must be accepted"})
	}
	if !a.AuthorityGranted {
		c.Add(&ValidationError{Field: "authority_granted", Message: "must be granted"})
	}
	return c.Errors()
}

var paymentMethods = []string{
	string(types.PaymentDirectDebit),
	string(types.PaymentBankTransfer),
	string(types.PaymentDebitCard),
}

// PaymentDetailsErrors validates the payment step payload. Method-specific
// fields are required for direct debit; the mandate must always be signed.
func PaymentDetailsErrors(p types.PaymentDetails) []ValidationError {
	var c Collector
	c.Add(ValidateEnum("method", string(p.Method), paymentMethods))
	if p.Method == types.PaymentDirectDebit {
		c.Add(ValidateRequired("sort_code", p.SortCode))
		c.Add(ValidateRequired("account_number", p.AccountNumber))
		c.Add(ValidateRequired("account_holder_name", p.AccountHolderName))
	}
	if !p.MandateSigned {
		c.Add(&ValidationError{Field: "mandate_signed", Message: "the mandate must be signed"})
	}
	return c.Errors()
}

// IDVerificationErrors validates the id-verification step payload.
func IDVerificationErrors(v types.IDVerification) []ValidationError {
	var c Collector
	c.Add(ValidateRequired("id_document_type", v.IDDocumentType))
	c.Add(ValidateRequired("id_document_ref", v.IDDocumentRef))
	c.Add(ValidateRequired("proof_type", v.ProofType))
	c.Add(ValidateRequired("proof_document_ref", v.ProofDocumentRef))
	return c.Errors()
}

func indexedField(name string, i int) string {
	return fmt.Sprintf("%s[%d]", name, i)
}
