package constants

import "time"

// StorageTier names the layer of the upload fallback chain that holds a file.
type StorageTier string

// MediaType classifies a progress photo or video.
type MediaType string

// Role is the access level carried by a session.
type Role string

const (
	AppName            = "strivetrack"
	DefaultKeyringUser = "database-connection"
	DefaultDataDir     = "~/.config/strivetrack"
	DefaultDBFile      = "strivetrack.db"
	Version            = "v1.2.0"

	// DateFormat is the completion map key format (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "strivetrack-"
	BackupFileSuffix = ".db"

	// Keyring entries
	KeyringJWTSecret      = "session-signing-secret"
	KeyringBackendAnonKey = "backend-anon-key"
	KeyringCloudinaryURL  = "cloudinary-url"

	// Session
	SessionTTL       = 30 * 24 * time.Hour
	// A user counts as online when they logged in within this window.
	OnlineWindow     = 5 * time.Minute
	LocalUserIDStamp = "user_"
	AdminIDStamp     = "admin_"

	// Storage tiers in priority order
	TierPrimary   StorageTier = "r2"
	TierSecondary StorageTier = "supabase"
	TierFallback  StorageTier = "local"

	// Hosted backend bucket for user media
	MediaBucket = "user-media"

	// Upload limits
	MaxLocalFileSize    = 5 * 1024 * 1024
	MaxUploadFileSize   = 50 * 1024 * 1024
	CloudStorageLimit   = 1024 * 1024 * 1024
	UploadSafetyTimeout = 15 * time.Second
	DefaultUploadLimit  = 4
	DefaultKeepMedia    = 10

	// Media types
	MediaBefore   MediaType = "before"
	MediaProgress MediaType = "progress"
	MediaAfter    MediaType = "after"

	// Roles
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"

	// Notification pacing between consecutive achievement toasts
	NotificationStagger = 2 * time.Second
)

// Tiers returns the storage tiers in fallback order.
func Tiers() []StorageTier {
	return []StorageTier{TierPrimary, TierSecondary, TierFallback}
}

// ValidMediaType reports whether t is one of the accepted media types.
func ValidMediaType(t MediaType) bool {
	switch t {
	case MediaBefore, MediaProgress, MediaAfter:
		return true
	}
	return false
}
