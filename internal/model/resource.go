package model

// HTTP methods accepted in the resources.method column. MethodAny
// ("*") is part of the schema but the evaluator performs exact
// (name, method) matching only; wildcard matching is a documented
// extension, not default behaviour.
const (
	MethodGet    = "GET"
	MethodPost   = "POST"
	MethodPut    = "PUT"
	MethodDelete = "DELETE"
	MethodPatch  = "PATCH"
	MethodAny    = "*"
)

// ValidMethod reports whether m is one of the enumerated methods
// accepted by the resources table.
func ValidMethod(m string) bool {
	switch m {
	case MethodGet, MethodPost, MethodPut, MethodDelete, MethodPatch, MethodAny:
		return true
	}
	return false
}

// Resource represents a row in the `resources` table: a protected
// action identified by the (Name, Method) pair. No two rows share
// the same pair.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – resource name (e.g. project_list).
//  Description – optional free-text description.
//  Method      – one of the method constants above.
type Resource struct {
	ID          uint64 // resources.id
	Name        string // resources.name
	Description string // resources.description
	Method      string // resources.method
}
