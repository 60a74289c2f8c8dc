package notify

import (
	"fmt"
	"strings"
)

const codesSubject = "Your family portal access codes"

func renderCodesText(items []CodeItem) string {
	var b strings.Builder
	b.WriteString("Hello,\n\n")
	b.WriteString("Use the access codes below to link your family portal account:\n\n")
	for _, it := range items {
		fmt.Fprintf(&b, "  %s: %s\n", it.StudentName, it.Code)
	}
	b.WriteString("\nEach code can be redeemed a limited number of times. If a code does\n")
	b.WriteString("not work, contact the school office for a replacement.\n")
	return b.String()
}

func welcomeSubject(name string) string {
	return fmt.Sprintf("Welcome to the family portal, %s", name)
}

func renderWelcomeText(name, tempPassword string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\n", name)
	b.WriteString("An account has been created for you on the family portal.\n\n")
	fmt.Fprintf(&b, "Temporary password: %s\n\n", tempPassword)
	b.WriteString("Please sign in and change your password as soon as possible.\n")
	return b.String()
}
