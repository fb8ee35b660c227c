package lineage

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
)

// DefaultDocDirectory is the staging directory, relative to the project.
const DefaultDocDirectory = "json_docs"

// MoveRequest describes one move: every contact in ContactIDs is placed under
// ParentID (or RootID).
type MoveRequest struct {
	ContactIDs       []string
	ParentID         string
	DocDirectoryPath string
	Force            bool
}

// ParseExtraArgs builds a MoveRequest from --key=value arguments. Unknown
// flags and positional arguments are ignored.
func ParseExtraArgs(projectDir string, args []string) (*MoveRequest, error) {
	fs := pflag.NewFlagSet("move-contacts", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)

	contacts := fs.StringArray("contacts", nil, "comma separated ids of the contacts to move")
	parent := fs.String("parent", "", "id of the new parent, or root")
	docDir := fs.String("docDirectoryPath", "", "directory the updated documents are staged in")
	force := fs.String("force", "", "replace documents already staged")
	fs.Lookup("force").NoOptDefVal = "true"

	if err := fs.Parse(knownFlags(fs, args)); err != nil {
		return nil, &Error{Kind: InvalidArguments, Message: "invalid arguments", Err: err}
	}

	var ids []string
	for _, value := range *contacts {
		for _, id := range strings.Split(value, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
	}
	if len(ids) == 0 {
		return nil, newError(InvalidArguments, "required list of contact_id to be moved (--contacts=id1,id2)")
	}

	if !fs.Changed("parent") || strings.TrimSpace(*parent) == "" {
		return nil, newError(InvalidArguments, "required parameter parent (--parent=id or --parent=%s)", RootID)
	}

	dir := *docDir
	if dir == "" {
		dir = DefaultDocDirectory
	}
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(projectDir, dir)
	}

	return &MoveRequest{
		ContactIDs:       ids,
		ParentID:         strings.TrimSpace(*parent),
		DocDirectoryPath: dir,
		Force:            fs.Changed("force") && *force != "",
	}, nil
}

// knownFlags keeps the --name[=value] arguments fs defines.
func knownFlags(fs *pflag.FlagSet, args []string) []string {
	var out []string
	for _, arg := range args {
		if !strings.HasPrefix(arg, "--") {
			continue
		}
		name, _, _ := strings.Cut(strings.TrimPrefix(arg, "--"), "=")
		if fs.Lookup(name) != nil {
			out = append(out, arg)
		}
	}
	return out
}
