// Package core holds the data-plan record model shared by every other
// package: the record schema, result sets and the error taxonomy.
package core

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Source identifies the channel a package was scraped from.
type Source string

const (
	SourceMyVNPT    Source = "myvnpt"
	SourceVinaphone Source = "vinaphone"
	SourceDigishop  Source = "digishop"
)

// KnownSources lists the sources in display order.
var KnownSources = []Source{SourceMyVNPT, SourceVinaphone, SourceDigishop}

// ParseSource normalizes a raw source value. Unknown values are kept as-is
// (lower-cased) so rows are never dropped for a new channel name.
func ParseSource(raw string) Source {
	return Source(strings.ToLower(strings.TrimSpace(raw)))
}

// Known reports whether s is one of KnownSources.
func (s Source) Known() bool {
	for _, k := range KnownSources {
		if s == k {
			return true
		}
	}
	return false
}

func (s Source) String() string { return string(s) }

// Optional is a numeric value that may be absent. Absent is distinct from zero.
type Optional[T int | float64] struct {
	Value T
	Valid bool
}

// Some returns a present value.
func Some[T int | float64](v T) Optional[T] {
	return Optional[T]{Value: v, Valid: true}
}

// Get returns the value and whether it is present.
func (o Optional[T]) Get() (T, bool) {
	return o.Value, o.Valid
}

// String renders the value for delimited text; absent renders as "".
func (o Optional[T]) String() string {
	if !o.Valid {
		return ""
	}
	switch v := any(o.Value).(type) {
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*o = Optional[T]{}
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}

// Voice holds voice minutes, which the dataset stores either as a number
// or as free text such as "Miễn phí nội mạng".
type Voice struct {
	Minutes Optional[float64]
	Text    string
}

// ParseVoice keeps the raw text and extracts a number when the whole value
// is a finite number. "nan" and "inf" stay text.
func ParseVoice(raw string) Voice {
	raw = strings.TrimSpace(raw)
	v := Voice{Text: raw}
	if raw == "" {
		return v
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		v.Minutes = Some(f)
	}
	return v
}

// IsNumeric reports whether the minutes were given as a number.
func (v Voice) IsNumeric() bool { return v.Minutes.Valid }

// String returns the value as it appeared in the source file.
func (v Voice) String() string {
	if v.Text != "" {
		return v.Text
	}
	return v.Minutes.String()
}

func (v Voice) MarshalJSON() ([]byte, error) {
	if v.Minutes.Valid {
		return json.Marshal(v.Minutes.Value)
	}
	if v.Text == "" {
		return []byte("null"), nil
	}
	return json.Marshal(v.Text)
}

func (v *Voice) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		*v = Voice{}
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = ParseVoice(s)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*v = ParseVoice(raw)
	return nil
}

// Record is one data-plan package. Records are immutable once loaded.
type Record struct {
	Source             Source            `json:"source"`
	PackageCode        string            `json:"package_code"`
	PackageName        string            `json:"package_name"`
	Price              Optional[float64] `json:"price"`
	CycleDays          Optional[int]     `json:"cycle_days"`
	DataGB             Optional[float64] `json:"data_gb"`
	VoiceMinutes       Voice             `json:"voice_minutes"`
	SMSCount           Optional[int]     `json:"sms_count"`
	PackageType        string            `json:"package_type"`
	Description        string            `json:"description"`
	FullDescription    string            `json:"full_description"`
	RegistrationSyntax string            `json:"registration_syntax"`
	CancellationSyntax string            `json:"cancellation_syntax"`
	CheckSyntax        string            `json:"check_syntax"`
	Eligibility        string            `json:"eligibility"`
	RenewalPolicy      string            `json:"renewal_policy"`
	SupportHotline     string            `json:"support_hotline"`
	OriginalLink       string            `json:"original_link"`
}

// Column names of the input file, in export order.
const (
	ColSource             = "source"
	ColPackageCode        = "package_code"
	ColPackageName        = "package_name"
	ColPrice              = "price"
	ColCycleDays          = "cycle_days"
	ColDataGB             = "data_gb"
	ColVoiceMinutes       = "voice_minutes"
	ColSMSCount           = "sms_count"
	ColPackageType        = "package_type"
	ColDescription        = "description"
	ColFullDescription    = "full_description"
	ColRegistrationSyntax = "registration_syntax"
	ColCancellationSyntax = "cancellation_syntax"
	ColCheckSyntax        = "check_syntax"
	ColEligibility        = "eligibility"
	ColRenewalPolicy      = "renewal_policy"
	ColSupportHotline     = "support_hotline"
	ColOriginalLink       = "original_link"
)

// Columns is the fixed 18-column schema.
var Columns = []string{
	ColSource, ColPackageCode, ColPackageName, ColPrice, ColCycleDays,
	ColDataGB, ColVoiceMinutes, ColSMSCount, ColPackageType, ColDescription,
	ColFullDescription, ColRegistrationSyntax, ColCancellationSyntax,
	ColCheckSyntax, ColEligibility, ColRenewalPolicy, ColSupportHotline,
	ColOriginalLink,
}

// Values returns the record as strings in Columns order.
func (r *Record) Values() []string {
	return []string{
		string(r.Source),
		r.PackageCode,
		r.PackageName,
		r.Price.String(),
		r.CycleDays.String(),
		r.DataGB.String(),
		r.VoiceMinutes.String(),
		r.SMSCount.String(),
		r.PackageType,
		r.Description,
		r.FullDescription,
		r.RegistrationSyntax,
		r.CancellationSyntax,
		r.CheckSyntax,
		r.Eligibility,
		r.RenewalPolicy,
		r.SupportHotline,
		r.OriginalLink,
	}
}
