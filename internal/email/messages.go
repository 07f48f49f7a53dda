// Package email builds and delivers the marketplace's outbound notifications.
package email

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/reachly/leadmatch/internal/model"
)

// Message is one outbound notification, ready for a service.Sender.
type Message struct {
	To      string
	Subject string
	Body    string
}

var bodyTemplate = template.Must(template.New("body").Parse(`<html>
  <body>
    <h2>{{.Heading}}</h2>
    <p>Dear {{.Greeting}},</p>
{{range .Paragraphs}}    <p>{{.}}</p>
{{end}}{{if .Items}}    <ul>
{{range .Items}}      <li>{{.}}</li>
{{end}}    </ul>
{{end}}    <p>Best regards,</p>
    <p>The Reachly Team</p>
  </body>
</html>`))

type bodyData struct {
	Heading    string
	Greeting   string
	Paragraphs []string
	Items      []string
}

func render(data bodyData) string {
	var sb strings.Builder
	// The template only fails on unrenderable values; plain strings never are.
	_ = bodyTemplate.Execute(&sb, data)
	return sb.String()
}

// VendorWelcome greets a freshly registered vendor.
func VendorWelcome(vendor *model.Vendor) Message {
	return Message{
		To:      strings.TrimSpace(vendor.Email),
		Subject: "Welcome to Reachly – Set Up Your Vendor Dashboard",
		Body: render(bodyData{
			Heading:  "Welcome to Reachly – Set Up Your Vendor Dashboard",
			Greeting: vendor.FullName(),
			Paragraphs: []string{
				"Thank you for signing up with Reachly! We're thrilled you've chosen us to help grow your business through high-quality, ready-to-buy leads.",
				"Once your profile is reviewed and leads are assigned, you can track your matched buyers through your vendor dashboard.",
			},
		}),
	}
}

// BuyerWelcome greets a freshly registered buyer.
func BuyerWelcome(buyer *model.Buyer) Message {
	return Message{
		To:      strings.TrimSpace(buyer.Email),
		Subject: "Welcome to Reachly! Connect with Top Vendors",
		Body: render(bodyData{
			Heading:  "Welcome to Reachly! Connect with Top Vendors",
			Greeting: buyer.FirstName,
			Paragraphs: []string{
				"Thank you for signing up with Reachly! We're excited to connect you with vendors who can help elevate your business.",
				"Your buyer dashboard shows the vendors you've been matched with, their contact details, and your open inquiries.",
			},
		}),
	}
}

// AdminNewVendor notifies the configured admin address of a vendor sign-up.
func AdminNewVendor(adminEmail string, vendor *model.Vendor) Message {
	return Message{
		To:      adminEmail,
		Subject: "New Vendor Registration - Admin Notification",
		Body: render(bodyData{
			Heading:  "New Vendor Registration – Action Required",
			Greeting: "Admin",
			Paragraphs: []string{
				"A new vendor has successfully signed up on Reachly:",
			},
			Items: []string{
				"Name: " + vendor.FullName(),
				"Email: " + vendor.Email,
				"Company: " + vendor.CompanyName,
			},
		}),
	}
}

// AdminNewBuyer notifies the configured admin address of a buyer sign-up.
func AdminNewBuyer(adminEmail string, buyer *model.Buyer) Message {
	return Message{
		To:      adminEmail,
		Subject: "New Buyer Registration - Admin Notification",
		Body: render(bodyData{
			Heading:  "New Buyer Registration – Action Required",
			Greeting: "Admin",
			Paragraphs: []string{
				"A new buyer has successfully signed up on Reachly:",
			},
			Items: []string{
				"Name: " + buyer.FullName(),
				"Email: " + buyer.Email,
				"Company: " + buyer.CompanyName,
			},
		}),
	}
}

// LeadsAssigned tells a vendor how many leads were just credited.
func LeadsAssigned(vendor *model.Vendor, added int) Message {
	return Message{
		To:      vendor.Email,
		Subject: "New Leads Added to Your Account",
		Body: render(bodyData{
			Heading:  "New Leads Added to Your Account",
			Greeting: vendor.FullName(),
			Paragraphs: []string{
				fmt.Sprintf("We're pleased to inform you that %d new leads have been added to your account.", added),
				fmt.Sprintf("Current lead balance: %d", vendor.Leads),
			},
		}),
	}
}

// LeadsLow warns a vendor whose balance has dropped to one lead or fewer.
func LeadsLow(vendor *model.Vendor) Message {
	return Message{
		To:      vendor.Email,
		Subject: "Low Leads Balance Alert",
		Body: render(bodyData{
			Heading:  "Low Leads Balance Alert",
			Greeting: vendor.FullName(),
			Paragraphs: []string{
				fmt.Sprintf("Your leads balance is now at %d. To ensure uninterrupted access to new matches, please purchase additional leads.", vendor.Leads),
			},
		}),
	}
}

// AccountStatusChanged tells a vendor or buyer their account was toggled.
func AccountStatusChanged(to, name string, active bool) Message {
	state := "deactivated"
	if active {
		state = "reactivated"
	}
	return Message{
		To:      to,
		Subject: "Your Reachly Account Status Has Changed",
		Body: render(bodyData{
			Heading:  "Account Status Update",
			Greeting: name,
			Paragraphs: []string{
				fmt.Sprintf("Your Reachly account has been %s. Contact support if this was unexpected.", state),
			},
		}),
	}
}
