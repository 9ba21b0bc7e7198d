package utils

import (
	"fmt"
	"log"

	"smartmind/config"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// sendEmail delivers a single HTML email through SendGrid. When no API key
// is configured the message is logged instead, so local setups and tests
// never need a mail account. Delivery is best-effort everywhere it is used.
func sendEmail(toEmail, toName, subject, htmlBody string) error {
	if config.AppConfig.MailApiKey == "" {
		log.Printf("[EMAIL:console] to=%s subject=%q", toEmail, subject)
		return nil
	}

	from := mail.NewEmail("SmartMind", config.AppConfig.EmailSender)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, "", htmlBody)

	client := sendgrid.NewSendClient(config.AppConfig.MailApiKey)
	resp, err := client.Send(message)
	if err != nil {
		log.Printf("Error sending email to %s: %v", toEmail, err)
		return err
	}
	if resp.StatusCode >= 400 {
		log.Printf("Email to %s rejected, response code: %d", toEmail, resp.StatusCode)
		return fmt.Errorf("email rejected, code: %d", resp.StatusCode)
	}

	return nil
}

// SendResetCodeEmail sends the password reset code to a user
func SendResetCodeEmail(email, name, code string) error {
	body := fmt.Sprintf(`
		<html>
			<body style="font-family: Arial, sans-serif; background-color: #f4f4f4; padding: 20px;">
				<div style="max-width: 500px; margin: auto; background-color: #ffffff; border-radius: 8px; padding: 30px;">
					<h2 style="color: #333333; text-align: center;">SmartMind Password Reset</h2>
					<p style="font-size: 16px; color: #555555;">Hi %s,</p>
					<p style="font-size: 16px; color: #555555; text-align: center;">Your password reset code is:</p>
					<h1 style="text-align: center; color: #4CAF50; font-size: 40px; margin: 20px 0;">%s</h1>
					<p style="font-size: 14px; color: #999999; text-align: center;">The code expires in 30 minutes. Do not share it with anyone.</p>
				</div>
			</body>
		</html>
	`, name, code)

	return sendEmail(email, name, "SmartMind password reset code", body)
}

// SendEnrollmentDecisionEmail notifies a learner that a tutor decided on
// their enrollment request.
func SendEnrollmentDecisionEmail(email, name, courseTitle, status string) error {
	body := fmt.Sprintf(`
		<html>
			<body style="font-family: Arial, sans-serif; background-color: #f4f4f4; padding: 20px;">
				<div style="max-width: 600px; margin: auto; background-color: #ffffff; border-radius: 8px; padding: 30px;">
					<h2 style="color: #333333; text-align: center;">Enrollment Update</h2>
					<p style="font-size: 16px; color: #555555;">Dear %s,</p>
					<p style="font-size: 16px; color: #555555;">Your enrollment request for the course below has been <b>%s</b>:</p>
					<h3 style="text-align: center; color: #4CAF50; margin: 20px 0;">%s</h3>
					<p style="text-align: center; font-size: 12px; color: #bbbbbb; margin-top: 20px;">SmartMind Team</p>
				</div>
			</body>
		</html>
	`, name, status, courseTitle)

	return sendEmail(email, name, "Course enrollment "+status+" - SmartMind", body)
}
