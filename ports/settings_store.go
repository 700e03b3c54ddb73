package ports

// SettingsStore is the persistent key-value capability behind the session
// configuration. One key is in use: the API base URL override.
//
// Get reports absence instead of failing; callers fall back to the compiled
// default. Set and Clear are best-effort: storage failures are swallowed,
// never surfaced.
type SettingsStore interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Clear(key string)
}
