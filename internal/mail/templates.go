package mail

import (
	"fmt"
	"time"
)

// PasswordResetMessage renders the reset email for the given link.
func PasswordResetMessage(to, link string, validFor time.Duration) Message {
	minutes := int(validFor.Minutes())
	return Message{
		To:      to,
		Subject: "Reset your Home Budget password",
		Text: fmt.Sprintf(
			"We received a request to reset your password.\n\n"+
				"Open the link below within %d minutes to choose a new one:\n%s\n\n"+
				"If you did not ask for this, you can ignore this email.\n", minutes, link),
		HTML: fmt.Sprintf(
			"<p>We received a request to reset your password.</p>"+
				"<p><a href=\"%s\">Choose a new password</a> (valid for %d minutes).</p>"+
				"<p>If you did not ask for this, you can ignore this email.</p>", link, minutes),
	}
}
