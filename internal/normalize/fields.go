package normalize

// FieldMap names the vendor keys the normalizer reads from a raw posting.
// Empty entries are treated as absent.
type FieldMap struct {
	Title          string
	Company        string
	City           string
	State          string
	Country        string
	Description    string
	ApplyLink      string
	EmploymentType string
	Remote         string

	// PostedAt lists date aliases in priority order.
	PostedAt []string
}

// JSearchFields is the mapping for the JSearch (RapidAPI) /search payload.
var JSearchFields = FieldMap{
	Title:          "job_title",
	Company:        "employer_name",
	City:           "job_city",
	State:          "job_state",
	Country:        "job_country",
	Description:    "job_description",
	ApplyLink:      "job_apply_link",
	EmploymentType: "job_employment_type",
	Remote:         "job_is_remote",
	PostedAt: []string{
		"job_posted_at_datetime_utc",
		"job_posted_at_timestamp",
		"job_posted_at",
	},
}
