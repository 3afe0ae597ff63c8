package cmd

const (
	// DEF_WEB_PORT is the loopback port the daemon serves the extension
	// bridge and the HTTP RPC endpoint on.
	DEF_WEB_PORT = 8617

	// RPC_SECRET_ENV holds the bearer token guarding the HTTP RPC endpoint.
	// Unset leaves the endpoint disabled.
	RPC_SECRET_ENV = "CKZVAULT_RPC_SECRET"
)

const HELP_TEMPL = `Usage: {{if .UsageText}}{{.UsageText}}{{else}}{{.HelpName}} {{if .VisibleFlags}}[global options]{{end}}{{if .Commands}} command [command options]{{end}} {{if .ArgsUsage}}{{.ArgsUsage}}{{else}}[arguments...]{{end}}{{end}}
{{.Description}}{{if .VisibleCommands}}
Commands:{{range .VisibleCategories}}{{if .Name}}

{{.Name}}:{{range .VisibleCommands}}
  {{join .Names ", "}}{{"\t"}}{{.Usage}}{{end}}{{else}}{{range .VisibleCommands}}
{{"\t"}}{{index .Names 0}}{{"\t:\t"}}{{.Usage}}{{end}}{{end}}{{end}}{{end}}{{if .VisibleFlags}}{{end}}

Use "{{.HelpName}} help <command>" for more information about any command.

`

const CMD_HELP_TEMPL = `{{if .Description}}{{.Description}}{{else}}{{.HelpName}} - {{.Usage}}

{{end}}Usage:
        {{.HelpName}} {{if .UsageText}}{{.UsageText}}{{else}}[arguments...]{{end}}{{if .VisibleFlags}}

Supported Flags:{{range .VisibleFlags}}
  {{.}}{{end}}{{end}}

`

const DESCRIPTION = `
ckzvault is the local companion for the cookie-keeper browser
extension. It backs up browser cookies into encrypted .ckz
archives, restores them back into the browser, and can ship
copies to a chat bot or a remote server.
`

const (
	BackupDescription = `The backup command collects cookies and writes them into a
backup archive. With a password the archive is encrypted;
without one a plain JSON snapshot is written.

Cookies come from the connected browser extension via the
daemon, or from a local file or browser store given with
--from when no daemon is running.

Example:
        ckzvault backup -p mypassword
        ckzvault backup --from cookies.txt --domains example.com

`
	RestoreDescription = `The restore command replays a backup archive into the
browser's cookie store through the connected extension.
Expired cookies are skipped and individual failures never
abort the batch.

Use --dry-run to validate an archive without a browser.

Example:
        ckzvault restore cookies-12-03-2026-09-15-00.ckz -p mypassword

`
	HistoryDescription = `The history command lists past backup operations, most
recent first, with their type, size and cookie count.

Example:
        ckzvault history --limit 10

`
	FlushDescription = `The flush command deletes the backup history ledger for the
current user. Backup archives themselves are not removed.

Example:
        ckzvault flush

`
	InspectDescription = `The inspect command classifies a backup file without
decrypting it: envelope version, checksum state and whether
a password will be needed to restore it.

Example:
        ckzvault inspect cookies-12-03-2026-09-15-00.ckz

`
	ScheduleDescription = `The schedule command shows or changes the automatic backup
cadence. Accepted tokens are off, hourly, daily, weekly,
monthly, or a raw five-field cron expression.

Example:
        ckzvault schedule
        ckzvault schedule daily

`
	CredsDescription = `The creds command manages the chat push credentials stored
in the system keyring (bot token and destination chat id).

Example:
        ckzvault creds set --token 123:abc --chat 42

`
	DaemonDescription = `The daemon command runs the vault daemon in the foreground.
It listens for the browser extension on a loopback WebSocket
and for the CLI on a local socket, and triggers scheduled
automatic backups.

Example:
        ckzvault daemon

`
)
