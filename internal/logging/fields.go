package logging

// Keys used in structured log entries. Callers use these instead of string
// literals so the json and logfmt outputs stay consistent.
const (
	FieldError    = "error"
	FieldKind     = "kind"
	FieldDuration = "duration"

	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldLine       = "line"
	FieldWorkingDir = "working_dir"
	FieldSchema     = "schema"

	FieldRule   = "rule"
	FieldStatus = "status"

	FieldFix    = "fix"
	FieldDryRun = "dry_run"
	FieldJobs   = "jobs"

	FieldFilesDiscovered  = "files_discovered"
	FieldFilesProcessed   = "files_processed"
	FieldFilesModified    = "files_modified"
	FieldDiagnosticsTotal = "diagnostics_total"
	FieldFixesApplied     = "fixes_applied"
	FieldTypesIndexed     = "types_indexed"

	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
	FieldGo      = "go"
)
