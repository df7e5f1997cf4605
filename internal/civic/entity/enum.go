package entity

type ApplicationStatus int16

const (
	ApplicationStatusUnknown ApplicationStatus = 0

	// ApplicationStatusPending mean application is created but not paid for.
	ApplicationStatusPending ApplicationStatus = 1

	// ApplicationStatusSubmitted mean fee is paid and the application is in the queue.
	ApplicationStatusSubmitted ApplicationStatus = 2

	// ApplicationStatusProcessing mean an official has taken the application up.
	ApplicationStatusProcessing ApplicationStatus = 3

	// ApplicationStatusApproved is terminal.
	ApplicationStatusApproved ApplicationStatus = 4

	// ApplicationStatusRejected is terminal and carries a reason.
	ApplicationStatusRejected ApplicationStatus = 5
)

func (as ApplicationStatus) String() string {
	switch as {
	case ApplicationStatusPending:
		return "Pending"
	case ApplicationStatusSubmitted:
		return "Submitted"
	case ApplicationStatusProcessing:
		return "Processing"
	case ApplicationStatusApproved:
		return "Approved"
	case ApplicationStatusRejected:
		return "Rejected"
	default:
		return "Unknown"
	}
}

// CanTransitionTo encodes the review ladder. Payment handles the
// Pending→Submitted edge separately.
func (as ApplicationStatus) CanTransitionTo(next ApplicationStatus) bool {
	switch as {
	case ApplicationStatusSubmitted:
		return next == ApplicationStatusProcessing
	case ApplicationStatusProcessing:
		return next == ApplicationStatusApproved || next == ApplicationStatusRejected
	default:
		return false
	}
}

func ApplicationStatusFromString(str string) ApplicationStatus {
	switch str {
	case "Pending":
		return ApplicationStatusPending
	case "Submitted":
		return ApplicationStatusSubmitted
	case "Processing":
		return ApplicationStatusProcessing
	case "Approved":
		return ApplicationStatusApproved
	case "Rejected":
		return ApplicationStatusRejected
	default:
		return ApplicationStatusUnknown
	}
}

// ApplicationKind identifies which detail row an application carries.
type ApplicationKind int16

const (
	ApplicationKindUnknown        ApplicationKind = 0
	ApplicationKindPassport       ApplicationKind = 1
	ApplicationKindNationalID     ApplicationKind = 2
	ApplicationKindDriversLicense ApplicationKind = 3
)

func (ak ApplicationKind) String() string {
	switch ak {
	case ApplicationKindPassport:
		return "Passport"
	case ApplicationKindNationalID:
		return "NationalID"
	case ApplicationKindDriversLicense:
		return "DriversLicense"
	default:
		return "Unknown"
	}
}

// ServiceName is the catalog row name each kind bills against.
func (ak ApplicationKind) ServiceName() string {
	switch ak {
	case ApplicationKindPassport:
		return "passport"
	case ApplicationKindNationalID:
		return "national_id"
	case ApplicationKindDriversLicense:
		return "drivers_license"
	default:
		return ""
	}
}

type PaymentStatus int16

const (
	PaymentStatusUnknown PaymentStatus = 0

	// PaymentStatusCompleted is the only status the simulated gateway emits.
	PaymentStatusCompleted PaymentStatus = 1

	PaymentStatusFailed PaymentStatus = 2
)

func (ps PaymentStatus) String() string {
	switch ps {
	case PaymentStatusCompleted:
		return "Completed"
	case PaymentStatusFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}
