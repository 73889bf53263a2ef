package domain

// ==================== RAW RECORDS ====================

// RawPolicyRecord is one row of the policy-selection store.
type RawPolicyRecord struct {
	ISMSID   string `datastore:"ISMSID" json:"ISMSID" db:"isms_id"`
	Content  string `datastore:"Content" json:"Content" db:"content"`
	FullPath string `datastore:"full_path" json:"full_path" db:"full_path"`
}

// RawEvidenceRecord is one row of the evidence-metadata store. Reasons holds the
// values of reason1, reason2, ... in order, as produced by EnumerateReasons.
type RawEvidenceRecord struct {
	ISMSItem string   `json:"ISMSItem" db:"isms_item"`
	FileName string   `json:"FileName" db:"file_name"`
	Reasons  []string `json:"reasons" db:"reasons"`
}

// ==================== AGGREGATES ====================

// ReasonGroup lists the justification strings recorded for one evidence file.
type ReasonGroup struct {
	FileName string   `json:"file_name"`
	Reasons  []string `json:"reasons"`
}

// AggregateItem collects everything known about one ISMS control. Items are
// snapshots: nothing mutates them after aggregation, so they can be shared
// between concurrent sheet mappings.
type AggregateItem struct {
	ISMSID    string        `json:"isms_id"`
	Contents  []string      `json:"contents"`
	Policies  []string      `json:"policies"`
	Evidences []string      `json:"evidences"`
	Reasons   []ReasonGroup `json:"reasons"`
}
