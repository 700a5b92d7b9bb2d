// Package identity synthesizes realistic but fictitious Chinese
// personal records: names weighted by census frequency, GB 11643-1999
// resident ID numbers, carrier-accurate phone numbers, and dozens of
// correlated demographic attributes. All draws come from a single
// seedable random stream so identical seed and configuration replay
// byte-identical batches.
package identity

import (
	"strconv"
	"time"
)

// Field identifies one generatable attribute. The set is closed: every
// member has exactly one generator in the assembler.
type Field string

const (
	FieldName             Field = "name"
	FieldFirstName        Field = "first_name"
	FieldLastName         Field = "last_name"
	FieldGender           Field = "gender"
	FieldBirthdate        Field = "birthdate"
	FieldAge              Field = "age"
	FieldZodiacSign       Field = "zodiac_sign"
	FieldChineseZodiac    Field = "chinese_zodiac"
	FieldEthnicity        Field = "ethnicity"
	FieldPhone            Field = "phone"
	FieldEmail            Field = "email"
	FieldAddress          Field = "address"
	FieldCity             Field = "city"
	FieldState            Field = "state"
	FieldZipcode          Field = "zipcode"
	FieldCountry          Field = "country"
	FieldSSN              Field = "ssn"
	FieldCompany          Field = "company"
	FieldJobTitle         Field = "job_title"
	FieldUsername         Field = "username"
	FieldPassword         Field = "password"
	FieldEducation        Field = "education"
	FieldMajor            Field = "major"
	FieldPoliticalStatus  Field = "political_status"
	FieldMaritalStatus    Field = "marital_status"
	FieldBloodType        Field = "blood_type"
	FieldHeight           Field = "height"
	FieldWeight           Field = "weight"
	FieldBankCard         Field = "bank_card"
	FieldSocialCreditCode Field = "social_credit_code"
	FieldWeChatID         Field = "wechat_id"
	FieldQQNumber         Field = "qq_number"
	FieldLicensePlate     Field = "license_plate"
	FieldIPAddress        Field = "ip_address"
	FieldMACAddress       Field = "mac_address"
	FieldEmergencyContact Field = "emergency_contact"
	FieldEmergencyPhone   Field = "emergency_phone"
	FieldHobbies          Field = "hobbies"
	FieldReligion         Field = "religion"
)

// allFields is the canonical field order. Output columns, to-map
// ordering, and the assembler's draw order all follow it.
var allFields = []Field{
	FieldName, FieldFirstName, FieldLastName, FieldGender,
	FieldBirthdate, FieldAge, FieldZodiacSign, FieldChineseZodiac,
	FieldEthnicity, FieldPhone, FieldEmail, FieldAddress, FieldCity,
	FieldState, FieldZipcode, FieldCountry, FieldSSN, FieldCompany,
	FieldJobTitle, FieldUsername, FieldPassword, FieldEducation,
	FieldMajor, FieldPoliticalStatus, FieldMaritalStatus,
	FieldBloodType, FieldHeight, FieldWeight, FieldBankCard,
	FieldSocialCreditCode, FieldWeChatID, FieldQQNumber,
	FieldLicensePlate, FieldIPAddress, FieldMACAddress,
	FieldEmergencyContact, FieldEmergencyPhone, FieldHobbies,
	FieldReligion,
}

// AllFields returns the canonical field order. The slice is a copy.
func AllFields() []Field {
	out := make([]Field, len(allFields))
	copy(out, allFields)
	return out
}

// KnownField reports whether name is a recognized field.
func KnownField(name string) bool {
	for _, f := range allFields {
		if Field(name) == f {
			return true
		}
	}
	return false
}

// naturalKeyFields behave like real-world unique identifiers and are
// subject to in-batch deduplication.
var naturalKeyFields = []Field{
	FieldPhone, FieldSSN, FieldEmail, FieldUsername, FieldBankCard,
	FieldSocialCreditCode, FieldWeChatID, FieldQQNumber,
}

// Identity is one generated record. Built once, never mutated. A zero
// value in any slot means the field was not requested.
type Identity struct {
	Name             string `json:"name,omitempty"`
	FirstName        string `json:"first_name,omitempty"`
	LastName         string `json:"last_name,omitempty"`
	Gender           string `json:"gender,omitempty"`
	Birthdate        string `json:"birthdate,omitempty"`
	Age              int    `json:"age,omitempty"`
	ZodiacSign       string `json:"zodiac_sign,omitempty"`
	ChineseZodiac    string `json:"chinese_zodiac,omitempty"`
	Ethnicity        string `json:"ethnicity,omitempty"`
	Phone            string `json:"phone,omitempty"`
	Email            string `json:"email,omitempty"`
	Address          string `json:"address,omitempty"`
	City             string `json:"city,omitempty"`
	State            string `json:"state,omitempty"`
	Zipcode          string `json:"zipcode,omitempty"`
	Country          string `json:"country,omitempty"`
	SSN              string `json:"ssn,omitempty"`
	Company          string `json:"company,omitempty"`
	JobTitle         string `json:"job_title,omitempty"`
	Username         string `json:"username,omitempty"`
	Password         string `json:"password,omitempty"`
	Education        string `json:"education,omitempty"`
	Major            string `json:"major,omitempty"`
	PoliticalStatus  string `json:"political_status,omitempty"`
	MaritalStatus    string `json:"marital_status,omitempty"`
	BloodType        string `json:"blood_type,omitempty"`
	Height           int    `json:"height,omitempty"`
	Weight           int    `json:"weight,omitempty"`
	BankCard         string `json:"bank_card,omitempty"`
	SocialCreditCode string `json:"social_credit_code,omitempty"`
	WeChatID         string `json:"wechat_id,omitempty"`
	QQNumber         string `json:"qq_number,omitempty"`
	LicensePlate     string `json:"license_plate,omitempty"`
	IPAddress        string `json:"ip_address,omitempty"`
	MACAddress       string `json:"mac_address,omitempty"`
	EmergencyContact string `json:"emergency_contact,omitempty"`
	EmergencyPhone   string `json:"emergency_phone,omitempty"`
	Hobbies          string `json:"hobbies,omitempty"`
	Religion         string `json:"religion,omitempty"`
}

// Value returns the string form of one field and whether it is set.
func (id Identity) Value(f Field) (string, bool) {
	switch f {
	case FieldName:
		return id.Name, id.Name != ""
	case FieldFirstName:
		return id.FirstName, id.FirstName != ""
	case FieldLastName:
		return id.LastName, id.LastName != ""
	case FieldGender:
		return id.Gender, id.Gender != ""
	case FieldBirthdate:
		return id.Birthdate, id.Birthdate != ""
	case FieldAge:
		return strconv.Itoa(id.Age), id.Age != 0
	case FieldZodiacSign:
		return id.ZodiacSign, id.ZodiacSign != ""
	case FieldChineseZodiac:
		return id.ChineseZodiac, id.ChineseZodiac != ""
	case FieldEthnicity:
		return id.Ethnicity, id.Ethnicity != ""
	case FieldPhone:
		return id.Phone, id.Phone != ""
	case FieldEmail:
		return id.Email, id.Email != ""
	case FieldAddress:
		return id.Address, id.Address != ""
	case FieldCity:
		return id.City, id.City != ""
	case FieldState:
		return id.State, id.State != ""
	case FieldZipcode:
		return id.Zipcode, id.Zipcode != ""
	case FieldCountry:
		return id.Country, id.Country != ""
	case FieldSSN:
		return id.SSN, id.SSN != ""
	case FieldCompany:
		return id.Company, id.Company != ""
	case FieldJobTitle:
		return id.JobTitle, id.JobTitle != ""
	case FieldUsername:
		return id.Username, id.Username != ""
	case FieldPassword:
		return id.Password, id.Password != ""
	case FieldEducation:
		return id.Education, id.Education != ""
	case FieldMajor:
		return id.Major, id.Major != ""
	case FieldPoliticalStatus:
		return id.PoliticalStatus, id.PoliticalStatus != ""
	case FieldMaritalStatus:
		return id.MaritalStatus, id.MaritalStatus != ""
	case FieldBloodType:
		return id.BloodType, id.BloodType != ""
	case FieldHeight:
		return strconv.Itoa(id.Height), id.Height != 0
	case FieldWeight:
		return strconv.Itoa(id.Weight), id.Weight != 0
	case FieldBankCard:
		return id.BankCard, id.BankCard != ""
	case FieldSocialCreditCode:
		return id.SocialCreditCode, id.SocialCreditCode != ""
	case FieldWeChatID:
		return id.WeChatID, id.WeChatID != ""
	case FieldQQNumber:
		return id.QQNumber, id.QQNumber != ""
	case FieldLicensePlate:
		return id.LicensePlate, id.LicensePlate != ""
	case FieldIPAddress:
		return id.IPAddress, id.IPAddress != ""
	case FieldMACAddress:
		return id.MACAddress, id.MACAddress != ""
	case FieldEmergencyContact:
		return id.EmergencyContact, id.EmergencyContact != ""
	case FieldEmergencyPhone:
		return id.EmergencyPhone, id.EmergencyPhone != ""
	case FieldHobbies:
		return id.Hobbies, id.Hobbies != ""
	case FieldReligion:
		return id.Religion, id.Religion != ""
	}
	return "", false
}

// FieldValue pairs a field with its rendered value.
type FieldValue struct {
	Field Field
	Value string
}

// Pairs returns the record as an ordered field/value list. With a nil
// include set, unset fields are dropped; with an explicit set, exactly
// the requested fields are returned (unset ones as empty strings),
// always in canonical order.
func (id Identity) Pairs(include map[Field]bool) []FieldValue {
	var out []FieldValue
	for _, f := range allFields {
		v, ok := id.Value(f)
		if include != nil {
			if include[f] {
				out = append(out, FieldValue{Field: f, Value: v})
			}
			continue
		}
		if ok {
			out = append(out, FieldValue{Field: f, Value: v})
		}
	}
	return out
}

// ToMap returns the record as a field-name → value map with the same
// inclusion semantics as Pairs.
func (id Identity) ToMap(include map[Field]bool) map[string]string {
	pairs := id.Pairs(include)
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		out[string(p.Field)] = p.Value
	}
	return out
}

// Record wraps an Identity with storage metadata for the encrypted
// saved-identities collection.
type Record struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Identity  Identity  `json:"identity"`
}
