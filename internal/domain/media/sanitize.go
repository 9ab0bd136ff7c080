package media

import (
	"path"
	"strconv"
	"strings"
)

const maxBaseNameLen = 80

// AllowedExtensions is checked case-insensitively against the name only; file
// contents are not sniffed.
var AllowedExtensions = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"gif":  true,
	"svg":  true,
	"pdf":  true,
	"mp4":  true,
	"webm": true,
}

// extension returns the lower-case extension of name without the dot.
func extension(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i < 0 || i == len(name)-1 {
		return ""
	}
	return strings.ToLower(name[i+1:])
}

func isAllowed(name string) bool {
	return AllowedExtensions[extension(name)]
}

// splitSafeName drops any directory part of name, replaces everything outside
// [A-Za-z0-9-_] with '_' and returns the cleaned base name and extension
// (with its dot, original case).
func splitSafeName(name string) (base, ext string) {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))

	if e := extension(name); e != "" {
		ext = name[len(name)-len(e)-1:]
		name = strings.TrimSuffix(name, ext)
	}

	base = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}
		return '_'
	}, name)
	base = strings.Trim(base, "_")
	if len(base) > maxBaseNameLen {
		base = base[:maxBaseNameLen]
	}
	if base == "" {
		base = "file"
	}
	return base, sanitizeExt(ext)
}

func sanitizeExt(ext string) string {
	if ext == "" {
		return ""
	}
	return "." + strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return r
		}
		return -1
	}, ext[1:])
}

// storageName builds "<base>_<timestamp><ext>", plus "_<n>" before the
// extension for the n-th attempt after a same-second collision.
func storageName(base, stamp, ext string, attempt int) string {
	if attempt <= 1 {
		return base + "_" + stamp + ext
	}
	return base + "_" + stamp + "_" + strconv.Itoa(attempt) + ext
}
