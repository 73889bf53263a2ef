package domain

import (
	"fmt"
	"strconv"
)

// Record field names used by the policy and evidence stores.
const (
	FieldISMSID   = "ISMSID"
	FieldContent  = "Content"
	FieldFullPath = "full_path"
	FieldISMSItem = "ISMSItem"
	FieldFileName = "FileName"

	reasonFieldPrefix = "reason"
)

// Fields is a flat, schemaless record as read from a document store.
type Fields map[string]interface{}

// String returns the value stored under key as a string. Missing and nil
// values return "".
func (f Fields) String(key string) string {
	v, ok := f[key]
	if !ok || v == nil {
		return ""
	}
	switch s := v.(type) {
	case string:
		return s
	case []byte:
		return string(s)
	default:
		return fmt.Sprint(s)
	}
}

// ReasonKey returns the field name holding the n-th reason, starting at 1.
func ReasonKey(n int) string {
	return reasonFieldPrefix + strconv.Itoa(n)
}

// EnumerateReasons reads reason1, reason2, ... through lookup and stops at the
// first key that is missing or empty. Later populated keys are never read.
func EnumerateReasons(lookup func(key string) (string, bool)) []string {
	var reasons []string
	for n := 1; ; n++ {
		v, ok := lookup(ReasonKey(n))
		if !ok || v == "" {
			return reasons
		}
		reasons = append(reasons, v)
	}
}

// PolicyFromFields maps a schemaless record onto a RawPolicyRecord.
func PolicyFromFields(f Fields) RawPolicyRecord {
	return RawPolicyRecord{
		ISMSID:   f.String(FieldISMSID),
		Content:  f.String(FieldContent),
		FullPath: f.String(FieldFullPath),
	}
}

// EvidenceFromFields maps a schemaless record onto a RawEvidenceRecord.
func EvidenceFromFields(f Fields) RawEvidenceRecord {
	return RawEvidenceRecord{
		ISMSItem: f.String(FieldISMSItem),
		FileName: f.String(FieldFileName),
		Reasons: EnumerateReasons(func(key string) (string, bool) {
			if _, ok := f[key]; !ok {
				return "", false
			}
			return f.String(key), true
		}),
	}
}

// Fields converts the record back into its schemaless form.
func (r RawPolicyRecord) Fields() Fields {
	return Fields{
		FieldISMSID:   r.ISMSID,
		FieldContent:  r.Content,
		FieldFullPath: r.FullPath,
	}
}

// Fields converts the record back into its schemaless form, spreading Reasons
// over reason1..reasonN.
func (r RawEvidenceRecord) Fields() Fields {
	f := Fields{
		FieldISMSItem: r.ISMSItem,
		FieldFileName: r.FileName,
	}
	for i, reason := range r.Reasons {
		f[ReasonKey(i+1)] = reason
	}
	return f
}
