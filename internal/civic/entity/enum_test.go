package entity

import "testing"

func TestApplicationStatusCanTransitionTo(t *testing.T) {
	all := []ApplicationStatus{
		ApplicationStatusUnknown,
		ApplicationStatusPending,
		ApplicationStatusSubmitted,
		ApplicationStatusProcessing,
		ApplicationStatusApproved,
		ApplicationStatusRejected,
	}

	allowed := map[ApplicationStatus]map[ApplicationStatus]bool{
		ApplicationStatusSubmitted:  {ApplicationStatusProcessing: true},
		ApplicationStatusProcessing: {ApplicationStatusApproved: true, ApplicationStatusRejected: true},
	}

	for _, from := range all {
		for _, to := range all {
			want := allowed[from][to]
			if got := from.CanTransitionTo(to); got != want {
				t.Errorf("%s -> %s = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestApplicationStatusFromString(t *testing.T) {
	for _, status := range []ApplicationStatus{
		ApplicationStatusPending,
		ApplicationStatusSubmitted,
		ApplicationStatusProcessing,
		ApplicationStatusApproved,
		ApplicationStatusRejected,
	} {
		if got := ApplicationStatusFromString(status.String()); got != status {
			t.Errorf("round trip of %s gave %s", status, got)
		}
	}

	if got := ApplicationStatusFromString("Archived"); got != ApplicationStatusUnknown {
		t.Errorf("unknown name gave %s", got)
	}
}

func TestApplicationKindServiceName(t *testing.T) {
	cases := map[ApplicationKind]string{
		ApplicationKindPassport:       "passport",
		ApplicationKindNationalID:     "national_id",
		ApplicationKindDriversLicense: "drivers_license",
		ApplicationKindUnknown:        "",
	}

	for kind, want := range cases {
		if got := kind.ServiceName(); got != want {
			t.Errorf("%s service name = %q, want %q", kind, got, want)
		}
	}
}
