// pkg/registry/schema.go
package registry

// Activity categories, one per process area.
const (
	CategoryOnboarding  = "onboarding"
	CategoryFeasibility = "feasibility"
	CategoryHealth      = "health"
)

// Categories lists the accepted activity categories in process order.
var Categories = []string{CategoryOnboarding, CategoryFeasibility, CategoryHealth}

// ActivityRegistry is the on-disk catalogue of worker task types.
type ActivityRegistry struct {
	Version     string     `json:"version"`
	LastUpdated string     `json:"lastUpdated"`
	Activities  []Activity `json:"activities"`
}

// Activity describes one task type: its JSON-Schema contract, retry policy
// and the workflows that use it.
type Activity struct {
	ID                   string                 `json:"id"`
	DisplayName          string                 `json:"displayName"`
	Description          string                 `json:"description"`
	Category             string                 `json:"category"`
	Version              string                 `json:"version"`
	TaskType             string                 `json:"taskType"`
	ImplementationStatus string                 `json:"implementationStatus"`
	InputSchema          map[string]interface{} `json:"inputSchema"`
	OutputSchema         map[string]interface{} `json:"outputSchema,omitempty"`
	ErrorCodes           []string               `json:"errorCodes"`
	Timeout              string                 `json:"timeout"`
	Retries              int                    `json:"retries"`
	Workflows            []string               `json:"workflows,omitempty"`
	Tags                 []string               `json:"tags,omitempty"`
}

// InCategory returns the activities of category, keeping file order.
func (r *ActivityRegistry) InCategory(category string) []Activity {
	var out []Activity
	for _, a := range r.Activities {
		if a.Category == category {
			out = append(out, a)
		}
	}
	return out
}

func knownCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}
