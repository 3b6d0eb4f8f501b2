package service

import (
	"fmt"
	"strings"
)

const contactsSystemPrompt = "You compile emergency contact sheets for travellers. Answer with a single JSON object and nothing else."

const contactsShape = `{"emergencyContacts":[{"name":"","category":"embassy|police|medical|fire|personal|other","phone":"","email":"","address":"","notes":""}]}`

func generatePrompt(destinations []string, homeCountry string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "List the emergency contacts a traveller needs for: %s.\n", strings.Join(destinations, "; "))
	b.WriteString("Include the national police, ambulance and fire numbers and one major hospital per destination.\n")
	if homeCountry != "" {
		fmt.Fprintf(&b, "The traveller is a citizen of %s; include that country's embassy or consulate nearest each destination.\n", homeCountry)
	}
	b.WriteString("Only include numbers you are confident are correct.\n")
	fmt.Fprintf(&b, "Respond with JSON of this shape:\n%s\n", contactsShape)
	return b.String()
}

func extractPrompt(text string) string {
	var b strings.Builder
	b.WriteString("Extract every contact (person, company, hotel, embassy, insurer, emergency number) from the text below.\n")
	b.WriteString("Do not invent details that are not in the text.\n")
	fmt.Fprintf(&b, "Respond with JSON of this shape:\n%s\n\nText:\n\"\"\"\n%s\n\"\"\"\n", contactsShape, text)
	return b.String()
}
