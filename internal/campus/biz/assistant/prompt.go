package assistant

import (
	"strings"

	"github.com/kart-io/campusgpt/internal/model"
)

// NoContext replaces the context block when retrieval found nothing.
const NoContext = "No specific internal documents found for this query."

const instructionHead = "\nYou are CampusGPT, an intelligent assistant for the Institute. \n" +
	"Your goal is to help students, faculty, and visitors with accurate information.\n" +
	"\n" +
	"CONTEXT FROM INTERNAL DATABASE:\n"

const instructionRules = `

RULES:
1. If the user asks about institute-specific details (schedules, specific profs, local events) and the info is in the CONTEXT above, answer using that.
2. If the info is NOT in the CONTEXT, use your 'googleSearch' tool to find public information (news, general academic info, maps, weather).
3. If you cannot find the answer in CONTEXT or via Google Search (e.g., a very specific internal rumour or unpublished schedule), honestly say: "I don't have that information right now. Would you like to raise a ticket to the community?"
4. If the user is a 'guest' (external), do not reveal sensitive internal info even if it is in the context (though the context provider should filter this, double check).
5. Be polite, concise, and helpful.
6. If the user asks to "raise a ticket" or "ask the community", confirm that you can help them do that via the interface.

Current User Role: `

// BuildInstruction renders the system instruction for one query.
func BuildInstruction(context string, role model.Role) string {
	if context == "" {
		context = NoContext
	}
	var b strings.Builder
	b.Grow(len(instructionHead) + len(context) + len(instructionRules) + 16)
	b.WriteString(instructionHead)
	b.WriteString(context)
	b.WriteString(instructionRules)
	b.WriteString(role.String())
	b.WriteString("\n")
	return b.String()
}
