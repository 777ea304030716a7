package controller

import (
	"testing"

	"github.com/eyepatch-3097/ds-chatbot/config"
)

func TestMailerConfigured(t *testing.T) {
	if (&mailer{}).configured() {
		t.Fatal("empty mailer should not be configured")
	}
	if (&mailer{host: "smtp.gmail.com"}).configured() {
		t.Fatal("mailer without user should not be configured")
	}
	if !(&mailer{host: "smtp.gmail.com", user: "crew@dotswitch.space"}).configured() {
		t.Fatal("mailer with host and user should be configured")
	}
}

func TestNotifyLeadSkipsWhenUnconfigured(t *testing.T) {
	c := New(config.Config{LeadNotificationEmail: "ops@dotswitch.space"}, nil, nil, nil)
	if err := c.notifyLead("Asha", "asha@example.com", leadTypeContact, "", "User: hi"); err != nil {
		t.Fatalf("unconfigured mailer should skip quietly, got %v", err)
	}
	c = New(config.Config{}, nil, nil, nil)
	if err := c.notifyLead("Asha", "asha@example.com", leadTypeContact, "", "User: hi"); err != nil {
		t.Fatalf("missing recipient should skip quietly, got %v", err)
	}
}

func TestOrPlaceholder(t *testing.T) {
	if got := orPlaceholder("", "(none)"); got != "(none)" {
		t.Fatalf("got %q", got)
	}
	if got := orPlaceholder("  ", "(none)"); got != "(none)" {
		t.Fatalf("got %q", got)
	}
	if got := orPlaceholder("hello", "(none)"); got != "hello" {
		t.Fatalf("got %q", got)
	}
}
