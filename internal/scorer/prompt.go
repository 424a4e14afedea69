package scorer

import (
	"fmt"
	"strings"

	"github.com/sells-group/water-intel/internal/model"
)

// buildPrompt renders the per-district user message. The rubric travels in
// the system prompt so this part stays small.
func buildPrompt(a model.DistrictAttributes) string {
	var sb strings.Builder
	sb.WriteString("Score this water district:\n\n")
	fmt.Fprintf(&sb, "District Name: %s\n", a.Name)
	fmt.Fprintf(&sb, "Infrastructure budget: %d\n", a.Budget)
	fmt.Fprintf(&sb, "Cities Served: %d\n", a.CitiesServed)
	fmt.Fprintf(&sb, "APL Status: %s\n", a.APLAlignment)
	fmt.Fprintf(&sb, "Active Projects: %d\n", a.ProjectActivity)
	fmt.Fprintf(&sb, "Internal Support: %s\n", a.InternalSupport)
	return sb.String()
}
