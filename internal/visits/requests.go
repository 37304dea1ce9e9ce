package visits

// EntryRequest is the payload for registering a visitor's arrival. Company is
// the only optional field.
type EntryRequest struct {
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Company        string `json:"company"`
	HostLastName   string `json:"host_last_name"`
	EntrySignature string `json:"entry_signature"`
}

// ExitRequest closes an open visit. VisitID is the numeric id as a string,
// exactly as the sign-out form submits it.
type ExitRequest struct {
	VisitID       string `json:"visit_id"`
	ExitSignature string `json:"exit_signature"`
}

// Filter narrows a visit query. Every field is optional; blank values impose
// no constraint. From and To are dates (YYYY-MM-DD) matched inclusively
// against the whole day.
type Filter struct {
	Search string
	From   string
	To     string
}

// History status filter values. Anything else applies no status restriction.
const (
	StatusActive = "active"
	StatusClosed = "closed"
	StatusAll    = "all"
)

// HistoryFilter adds the status dimension to a Filter.
type HistoryFilter struct {
	Filter
	Status string
}

// Actor identifies who performs an operation and from where, for the audit
// trail. It is built once per request and passed in; the service holds no
// ambient request state.
type Actor struct {
	PerformedBy string
	IPAddress   string
}
