package entity

type UserStatus int16

const (
	// UserStatusUnknown is mean status is not known / not set.
	UserStatusUnknown UserStatus = 0

	// UserStatusUnverified mean user registered but has not confirmed the email code.
	UserStatusUnverified UserStatus = 1

	// UserStatusActive mean user confirmed the email code and can sign in.
	UserStatusActive UserStatus = 2

	// UserStatusInactive mean user account is deactivated or closed.
	UserStatusInactive UserStatus = 3
)

func (us UserStatus) String() string {
	switch us {
	case UserStatusUnverified:
		return "Unverified"
	case UserStatusActive:
		return "Active"
	case UserStatusInactive:
		return "Inactive"
	default:
		return "Unknown"
	}
}

func (us UserStatus) Ensure() UserStatus {
	switch us {
	case UserStatusUnverified, UserStatusActive, UserStatusInactive:
		return us
	default:
		return UserStatusUnknown
	}
}

type UserRole int16

const (
	UserRoleUnknown UserRole = 0

	// UserRoleCitizen is the default role for self-registered accounts.
	UserRoleCitizen UserRole = 1

	// UserRoleOfficial marks government staff who review applications.
	UserRoleOfficial UserRole = 2
)

func (ur UserRole) String() string {
	switch ur {
	case UserRoleCitizen:
		return "citizen"
	case UserRoleOfficial:
		return "official"
	default:
		return "unknown"
	}
}

func UserRoleFromString(str string) UserRole {
	switch str {
	case "citizen":
		return UserRoleCitizen
	case "official":
		return UserRoleOfficial
	default:
		return UserRoleUnknown
	}
}
