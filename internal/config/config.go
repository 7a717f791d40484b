package config

import (
	"io/fs"
	"time"
)

// -----------------------------------------------------------------------------
// Build Information
// -----------------------------------------------------------------------------

// Build variables are injected via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// UserAgent identifies the HTTP client.
var UserAgent = "Go-OnThisDay/" + Version

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName           = "Go On This Day"
	AppID             = "com.github.tartampluch.go-onthisday"
	AppCommand        = "onthisday"
	KeyringService    = "com.github.tartampluch.go-onthisday"
	LocalhostBindAddr = "127.0.0.1"
	LogFileName       = "app.log"
	SettingsFileName  = "config.yaml"
	AuthFileName      = "auth.secret"
)

// -----------------------------------------------------------------------------
// Exit Codes
// -----------------------------------------------------------------------------

const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
)

// -----------------------------------------------------------------------------
// System & File Permissions
// -----------------------------------------------------------------------------

const (
	// FilePermUserRW represents -rw------- (Read/Write for owner only).
	// Used for logs, settings and credential files.
	FilePermUserRW fs.FileMode = 0600

	// DirPermUserRWX represents drwx------ (Read/Write/Exec for owner only).
	DirPermUserRWX fs.FileMode = 0700

	// ChannelBufferSize defines the standard buffer size for internal signaling channels.
	ChannelBufferSize = 1
)

// -----------------------------------------------------------------------------
// CLI Commands, Flags & Descriptions
// -----------------------------------------------------------------------------

const (
	FlagConfig    = "config"
	FlagDebug     = "debug"
	FlagDate      = "date"
	FlagFormat    = "format"
	FlagLang      = "lang"
	FlagPort      = "port"
	FlagOutput    = "output"
	FlagOverwrite = "overwrite"
	FlagReminder  = "reminder"

	FlagDescConfig    = "Path to the YAML settings file"
	FlagDescDebug     = "Enable debug logging"
	FlagDescDate      = "Reference date (YYYY-MM-DD) used instead of today"
	FlagDescFormat    = "Output format: text, html or json"
	FlagDescLang      = "Language for headings and placeholders (en, fr)"
	FlagDescPort      = "HTTP port to listen on (overrides settings)"
	FlagDescOutput    = "Write to this file instead of stdout"
	FlagDescOverwrite = "Overwrite an existing file without asking"
	FlagDescReminder  = "VALARM trigger for calendar export, e.g. -P1D (overrides settings)"

	FormatText = "text"
	FormatHTML = "html"
	FormatJSON = "json"

	MsgVersionTemplate = "{{.Name}} version {{.Version}}\n"

	CmdRootShort        = "Family history highlights for today and tomorrow"
	CmdShowUse          = "show"
	CmdShowShort        = "Print today's and tomorrow's highlights"
	CmdServeUse         = "serve"
	CmdServeShort       = "Serve highlights, JSON and calendar over HTTP"
	CmdExportUse        = "export {ics|vcard}"
	CmdExportShort      = "Export anniversaries as iCalendar or vCard"
	CmdCredentialsUse   = "credentials"
	CmdCredentialsShort = "Manage the dataset source password"
	CmdCredSetUse       = "set"
	CmdCredSetShort     = "Store the source password in the OS keyring"
	CmdHashPasswordUse  = "hash-password"
	CmdHashPassShort    = "Create the argon2id auth file protecting serve mode"

	ExportICS   = "ics"
	ExportVCard = "vcard"
)

// SupportedExports lists the export command targets.
var SupportedExports = []string{ExportICS, ExportVCard}

// SupportedFormats lists the output formats accepted by the show command.
var SupportedFormats = []string{FormatText, FormatHTML, FormatJSON}

// SupportedLanguages defines the list of available renderer languages (ISO 639-1).
var SupportedLanguages = []string{"en", "fr"}

// -----------------------------------------------------------------------------
// Translation Keys (I18n)
// -----------------------------------------------------------------------------

const (
	TKeyHeadingToday    = "heading_today"
	TKeyHeadingTomorrow = "heading_tomorrow"
	TKeyHeadingBox      = "heading_box"
	TKeyNoEvent         = "no_recorded_event"
)

// -----------------------------------------------------------------------------
// Default Values & Business Logic
// -----------------------------------------------------------------------------

const (
	SourceModeWeb     = "web"
	SourceModeLocal   = "local"
	DefaultPort       = "18080"
	DefaultLanguage   = "en"
	DefaultRefresh    = "*/30 * * * *"
	MidnightSchedule  = "0 0 * * *"
	DefaultLocalPath  = "static/data/family-data.json"
	UIDSalt           = "go-onthisday-v1-" // Salt for deterministic UID generation
	UnknownName       = "Unknown"
	EnvSourcePassword = "ONTHISDAY_SOURCE_PASSWORD"
	EnvAuthFile       = "ONTHISDAY_AUTH_FILE"
	ReferenceDateFmt  = "2006-01-02"
	MatchKeyFormat    = "%02d-%02d"
)

// -----------------------------------------------------------------------------
// Standards: iCalendar & vCard
// -----------------------------------------------------------------------------

const (
	// iCal Properties
	ICalVersion   = "2.0"
	ICalProdid    = "-//Go On This Day//Engine//EN"
	ICalCalName   = "Family History"
	ICalMethod    = "PUBLISH"
	ICalScale     = "GREGORIAN"
	ICalComponent = "VALARM"
	ICalAction    = "DISPLAY"
	ICalDomain    = "onthisday"

	// iCal/vCard Fields
	PropUID         = "UID"
	PropSummary     = "SUMMARY"
	PropDTStart     = "DTSTART"
	PropDTStamp     = "DTSTAMP"
	PropRefresh     = "REFRESH-INTERVAL"
	PropAction      = "ACTION"
	PropDescription = "DESCRIPTION"
	PropTrigger     = "TRIGGER"
	PropVersion     = "VERSION"
	PropProdid      = "PRODID"
	PropXWRCalName  = "X-WR-CALNAME"
	PropCalScale    = "CALSCALE"
	PropMethod      = "METHOD"
	PropCategories  = "CATEGORIES"

	VCardVersion   = "4.0"
	VCardDeathDate = "DEATHDATE" // RFC 6474
	VCardDateFmt   = "%04d%02d%02d"

	DefaultICalRefresh = 12 * time.Hour

	// StubVCalendar is the minimal valid iCalendar object used when no events are found.
	StubVCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + ICalProdid + "\r\nEND:VCALENDAR\r\n"
)

// -----------------------------------------------------------------------------
// Event Sentences
// -----------------------------------------------------------------------------

const (
	SentenceBirth    = "%s was born in %d."
	SentenceDeath    = "%s died in %d."
	SentenceMarriage = "%s married %s in %d."

	FormatHashInput = "%s|%s|%s|%s"
	FormatUID       = "%s@%s"
)

// -----------------------------------------------------------------------------
// Network & Timeouts
// -----------------------------------------------------------------------------

const (
	HTTPTimeout         = 30 * time.Second
	ShutdownTimeout     = 5 * time.Second
	ServerReadTimeout   = 10 * time.Second
	ServerWriteTimeout  = 30 * time.Second
	ServerIdleTimeout   = 60 * time.Second
	RetryAfterSeconds   = "10"
	AllowedMethods      = "GET, HEAD"
	MaxHTTPResponseSize = 64 * 1024 * 1024 // 64MB
	SchemeHTTP          = "http"
	SchemeHTTPS         = "https"
	AddrSeparator       = ":"
	MinPort             = 1
	MaxPort             = 65535

	RouteRoot     = "/"
	RouteJSON     = "/highlights.json"
	RouteCalendar = "/calendar.ics"
	RouteHealth   = "/health"
)

// -----------------------------------------------------------------------------
// HTTP Headers & MIME Types
// -----------------------------------------------------------------------------

const (
	HeaderContentType     = "Content-Type"
	HeaderCacheControl    = "Cache-Control"
	HeaderETag            = "ETag"
	HeaderLastModified    = "Last-Modified"
	HeaderRetryAfter      = "Retry-After"
	HeaderAllow           = "Allow"
	HeaderXContentType    = "X-Content-Type-Options"
	HeaderUserAgent       = "User-Agent"
	HeaderAccept          = "Accept"
	HeaderIfNoneMatch     = "If-None-Match"
	HeaderIfModifiedSince = "If-Modified-Since"
	HeaderAuthenticate    = "WWW-Authenticate"

	MimeTextCalendar    = "text/calendar; charset=utf-8"
	MimeTextHTML        = "text/html; charset=utf-8"
	MimeTextPlain       = "text/plain; charset=utf-8"
	MimeJSON            = "application/json"
	MimeJSONUTF8        = "application/json; charset=utf-8"
	MimeNoSniff         = "nosniff"
	CacheControlPrivate = "private, no-cache"
	CacheControlNoStore = "no-store"
	AuthRealm           = `Basic realm="` + AppName + `", charset="UTF-8"`

	// FormatETag expects a string argument.
	FormatETag = `"%s"`
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrLocalPathEmpty  = "configuration error: local path is empty"
	ErrWebURLEmpty     = "configuration error: web URL is empty"
	ErrFetcherMissing  = "internal error: network fetcher is not initialized"
	ErrModeUnsupport   = "configuration error: unsupported source mode"
	ErrRefreshSpec     = "configuration error: invalid refresh schedule"
	ErrLanguage        = "configuration error: unsupported language"
	ErrFormat          = "unsupported output format"
	ErrSettingsRead    = "failed to read settings file"
	ErrSettingsParse   = "failed to parse settings file"
	ErrSettingsWrite   = "failed to write settings file"
	ErrServerStartup   = "server startup failed"
	ErrServerShutdown  = "server shutdown failed"
	ErrPortRequired    = "server port is required"
	ErrPortNumber      = "server port must be a number"
	ErrPortRange       = "server port must be between 1 and 65535"
	ErrInvalidURL      = "invalid URL structure"
	ErrProtocol        = "unsupported protocol scheme (http/https only)"
	ErrRequestCreate   = "failed to create request"
	ErrNetwork         = "network error during fetch"
	ErrBadStatus       = "server returned unexpected status"
	ErrDatasetLoad     = "failed to load family dataset"
	ErrDatasetDecode   = "failed to decode family dataset"
	ErrICalEncode      = "failed to encode iCalendar data"
	ErrVCardEncode     = "failed to encode vCard data"
	ErrRecurrence      = "failed to build anniversary recurrence"
	ErrReferenceDate   = "invalid reference date (expected YYYY-MM-DD)"
	ErrLogFile         = "failed to open log file"
	ErrCacheDir        = "could not determine user cache dir"
	ErrConfigDir       = "could not determine user config dir"
	ErrCreateDir       = "could not create app directory"
	ErrAppFailed       = "application failed unexpectedly"
	ErrWriteResp       = "failed to write response body"
	ErrRender          = "failed to render highlights"
	ErrLocalesAccess   = "failed to access embedded locales"
	ErrLocaleLoad      = "failed to load locale file"
	ErrKeyringGet      = "failed to read password from keyring"
	ErrKeyringSet      = "failed to store password in keyring"
	ErrUsernameEmpty   = "username cannot be empty"
	ErrPasswordEmpty   = "password cannot be empty"
	ErrPasswordMatch   = "passwords do not match"
	ErrPasswordRead    = "failed to read password"
	ErrAuthFileRead    = "failed to read auth file"
	ErrAuthFileFormat  = "invalid auth file format (expected username:hash)"
	ErrAuthFileExists  = "auth file already exists (use --overwrite)"
	ErrAuthFileWrite   = "failed to write auth file"
	ErrHashFormat      = "invalid hash format"
	ErrHashAlgorithm   = "not an argon2id hash"
	ErrHashParams      = "invalid argon2id parameters"
	ErrSaltGenerate    = "failed to generate salt"
	ErrSchedulerAdd    = "failed to schedule refresh job"
	ErrOutputFile      = "failed to open output file"
	ErrExportKind      = "unsupported export kind"
	ErrSourceNotConfig = "no dataset source configured"
)

// -----------------------------------------------------------------------------
// HTTP Server Responses
// -----------------------------------------------------------------------------

const (
	HTTPMsgInitializing = "Highlights initializing, please try again shortly."
	HTTPMsgMethodNotAll = "Method Not Allowed"
	HTTPMsgUnauthorized = "Unauthorized"
	HTTPMsgHealthy      = "ok"
)

// -----------------------------------------------------------------------------
// Log Messages
// -----------------------------------------------------------------------------

const (
	MsgSyncStarted    = "Highlight refresh started"
	MsgSyncFailed     = "Highlight refresh failed"
	MsgSyncDone       = "Highlight refresh finished"
	MsgDatasetLoaded  = "Family dataset loaded"
	MsgDownloadStart  = "Initiating dataset download"
	MsgDownloading    = "Dataset downloading"
	MsgBadStatus      = "Server returned error status"
	MsgWorkerStart    = "Background worker started"
	MsgWorkerStop     = "Worker stopping due to context cancellation"
	MsgAppStop        = "Application stopped gracefully"
	MsgAppStarting    = "Starting application"
	MsgServerListen   = "HTTP server listening"
	MsgServerStop     = "Shutting down HTTP server..."
	MsgCacheUpdated   = "Highlight cache updated"
	MsgAuthEnabled    = "Basic auth enabled"
	MsgAuthDisabled   = "No auth file found, serving without authentication"
	MsgAuthFailed     = "Basic auth rejected"
	MsgLocaleSkip     = "Skipping non-locale file"
	MsgLocaleBadName  = "Skipping malformed locale filename"
	MsgLocaleLoaded   = "Locale loaded successfully"
	MsgTransMissing   = "Missing translation key"
	MsgPassFail       = "Password retrieval failed (might be empty)"
	MsgLogWarning     = "Warning: %s at %s: %v\n"
	MsgSettingsLoaded = "Settings loaded"
	MsgSettingsNone   = "No settings file, using defaults"
	MsgCalendarBuilt  = "Calendar generation successful"
	MsgVCardsWritten  = "vCard export successful"
	MsgPasswordStored = "Password stored in keyring for user %s\n"
	MsgAuthFileSaved  = "Auth file written to %s\n"
	PromptUsername    = "Enter username: "
	PromptPassword    = "Enter password:   "
	PromptConfirm     = "Confirm password: "
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyError     = "error"
	LogKeyURL       = "url"
	LogKeyStatus    = "status_code"
	LogKeyFile      = "file"
	LogKeyLang      = "lang"
	LogKeyKey       = "key"
	LogKeyPort      = "port"
	LogKeyMode      = "mode"
	LogKeySchedule  = "schedule"
	LogKeyUser      = "user"
	LogKeyPersons   = "persons"
	LogKeyEvents    = "events"
	LogKeyToday     = "today"
	LogKeyTomorrow  = "tomorrow"
	LogKeyDate      = "date"
	LogKeySizeBytes = "size_bytes"
	LogKeyLength    = "content_length"
	LogKeyETag      = "etag"
	LogKeyStats     = "stats"
	LogKeyCount     = "count"
	LogKeyDuration  = "duration_ms"
	LogKeyRoute     = "route"

	// Startup Info Keys
	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
	LogKeyGoVer   = "go_version"
	LogKeyEnv     = "env"
	LogKeyOS      = "os"
	LogKeyArch    = "arch"
	LogKeyPID     = "pid"
)

// -----------------------------------------------------------------------------
// Log Components
// -----------------------------------------------------------------------------

const (
	CompEngine  = "engine"
	CompServer  = "server"
	CompFetcher = "fetcher"
	CompWorker  = "worker"
	CompMain    = "main"
	CompI18n    = "i18n"
	CompConfig  = "config"
	CompAuth    = "auth"
	CompExport  = "export"
)
