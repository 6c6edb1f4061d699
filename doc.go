// Package drop contains a HTTP handler that accepts file uploads
// and streams them into a directory.
//
// Files are sent as parts of a "multipart/form-data" envelope,
// which is what browsers and
//  curl -F file=@.bashrc http://127.0.0.1:8080/upload_file
// produce. They are written one after another, each in bounded memory
// regardless of its size.
//
// A file that would replace an existing one is written under an amended name:
// "_new" is inserted before the first dot, making "notes.txt" "notes_new.txt".
// Names without any dot get the suffix appended.
//
// Filenames are vetted unless Configuration.AllowUnsafeFilenames is set.
// Names with path separators, "." and "..", and names with unprintable runes
// are rejected. The alphabet and Unicode normalization form can be restricted further.
//
// There is no authentication. Don't expose this to untrusted networks.
package drop // import "blitznote.com/src/http.drop"
