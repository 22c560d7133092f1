package domain

type ProjectStatus string

const (
	ProjectActive   ProjectStatus = "active"
	ProjectArchived ProjectStatus = "archived"
)

type WorkItemStatus string

const (
	WorkItemOpen   WorkItemStatus = "open"
	WorkItemClosed WorkItemStatus = "closed"
)

// ValidRegions is the canonical set of holiday regions accepted by the
// coverage report's calendar.
var ValidRegions = map[string]bool{
	"jp": true, "us": true, "de": true, "none": true,
}
