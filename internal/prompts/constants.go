// Package prompts contains all prompt strings and descriptions used by the tools.
package prompts

// File tool descriptions
const (
	// EditFileToolDoc is the description for the edit_file tool
	EditFileToolDoc = `Edit an existing file or create a new one if it doesn't exist.
The file's content is replaced entirely with the new content; nothing of the previous content is kept.

Usage:
- file_path is required. A leading ~ is expanded to the user's home directory; relative paths are resolved against the server's working directory.
- new_content is required and must not be empty.
- Parent directories are not created.
- The write is not atomic: if it fails partway the file is left as the failed write left it.

Example arguments:
{"file_path": "/home/user/file.txt", "new_content": "This is the new content of the file."}

Returns {"message": "File updated successfully", "file_path": "..."} or {"error": "..."}.`

	// GetFilesContentsToolDoc is the description for the get_files_contents tool
	GetFilesContentsToolDoc = `Retrieve the contents of several files in one call. Send all the paths at once as a list.

Usage:
- files is a list of file paths. A leading ~ is expanded to the user's home directory.
- Files are decoded as UTF-8; files that are not valid UTF-8 are decoded as Latin-1.
- A missing or unreadable file does not fail the call; it is reported in "errors".

Example arguments:
{"files": ["/path/to/file1.txt", "/path/to/file2.txt"]}

Returns {"data": {"<path>": "<content>"}, "errors": [{"file": "<path>", "error": "File not found"}]}.
"errors" is omitted when every file was read.`

	// SearchStringToolDoc is the description for the search_string tool
	SearchStringToolDoc = `Search for a string within all files in a folder, recursively.

Usage:
- folder_path is the folder where the search is conducted. Ex: /path/to/folder
- search_string is the text to look for. Ex: SomeComponent
- Matching is a case-insensitive substring match against the whole file content.
- Undecodable bytes are ignored; unreadable files are skipped.

Returns {"files": [{"path": "/path/to/folder/file1.txt", "size": 1024}]}.
An empty list means nothing matched. Missing parameters or a missing folder return {"error": "..."}.`
)

// Command tool descriptions
const (
	// ExecuteCommandToolDoc is the description for the execute_command tool
	ExecuteCommandToolDoc = `Execute a shell command on the local machine and return its output.
This can include tasks such as interacting with the filesystem, managing Git repositories, or performing system operations.

Usage:
- command is required and is passed to the platform shell (/bin/sh -c, or cmd /C on Windows).
- Standard output and standard error are captured line by line and returned together in "output", in the order the lines arrived.
- A non-zero exit status adds a final line "Error: Command failed with exit code N"; the output captured before it is still returned.
- There is no timeout. A command that never exits blocks the call; do not start interactive programs or servers.

Example commands:
- git status
- git add /path/to/file
- git commit -m 'Commit message'
- mkdir /path/to/newdirectory
- ls -lah /path/to/directory

Returns {"command": "...", "output": ["line", "..."]}.`
)
