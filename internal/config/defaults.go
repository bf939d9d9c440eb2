package config

// PlatformSkipSenders are automated senders that never carry people signals.
// Company and engagement configs add to this list; nothing removes from it.
// Entries ending in "@" match any domain with that local-part prefix.
var PlatformSkipSenders = []string{
	"no-reply@zoom.us",
	"noreply@github.com",
	"no-reply@amazonaws.com",
	"notifications@github.com",
	"mailer-daemon@",
	"postmaster@",
	"calendar-notification@google.com",
	"noreply@microsoft.com",
	"no-reply@sns.amazonaws.com",
	"donotreply@myworkday.com",
}
