package clientcli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Formatter formats results for output.
type Formatter interface {
	FormatFolder(w io.Writer, folder *Folder) error
	FormatFolders(w io.Writer, folders []Folder) error
	FormatDelete(w io.Writer, results []DeleteResult) error
	FormatError(w io.Writer, err error) error
	FormatProfileList(w io.Writer, profiles []Profile, defaultName string) error
	FormatProfileShow(w io.Writer, profile Profile, isDefault bool) error
}

// NewFormatter returns the appropriate formatter based on flags.
func NewFormatter(jsonOutput, quiet bool) Formatter {
	if jsonOutput {
		return &JSONFormatter{}
	}
	return &HumanFormatter{Quiet: quiet}
}

// HumanFormatter outputs human-readable text.
type HumanFormatter struct {
	Quiet bool
}

// FormatFolder prints a single folder as labelled lines. In quiet mode only
// the id is printed.
func (f *HumanFormatter) FormatFolder(w io.Writer, folder *Folder) error {
	if f.Quiet {
		_, _ = fmt.Fprintln(w, folder.ID)
		return nil
	}

	_, _ = fmt.Fprintf(w, "ID:         %s\n", folder.ID)
	_, _ = fmt.Fprintf(w, "Name:       %s\n", folder.Name)
	_, _ = fmt.Fprintf(w, "Type:       %s\n", folder.Type)
	_, _ = fmt.Fprintf(w, "Owner:      %s\n", folder.Owner)

	subs := make([]string, len(folder.SubFolders))
	for i, id := range folder.SubFolders {
		subs[i] = id.String()
	}
	_, _ = fmt.Fprintf(w, "Subfolders: %s\n", joinOrNone(subs))

	required := make([]string, len(folder.RequiredFiles))
	for i, r := range folder.RequiredFiles {
		required[i] = r.Name
		if r.Optional {
			required[i] += " (optional)"
		}
	}
	_, _ = fmt.Fprintf(w, "Required:   %s\n", joinOrNone(required))
	_, _ = fmt.Fprintf(w, "Files:      %d\n", len(folder.Files))
	_, _ = fmt.Fprintf(w, "Created:    %s\n", folder.CreatedAt.Format("2006-01-02 15:04:05"))
	_, _ = fmt.Fprintf(w, "Updated:    %s\n", folder.UpdatedAt.Format("2006-01-02 15:04:05"))
	return nil
}

// FormatFolders prints folders as a table.
func (f *HumanFormatter) FormatFolders(w io.Writer, folders []Folder) error {
	if len(folders) == 0 {
		if !f.Quiet {
			_, _ = fmt.Fprintln(w, "No folders found")
		}
		return nil
	}

	if f.Quiet {
		for i := range folders {
			_, _ = fmt.Fprintln(w, folders[i].ID)
		}
		return nil
	}

	maxNameLen := 4 // "NAME"
	maxTypeLen := 4 // "TYPE"
	for i := range folders {
		maxNameLen = max(maxNameLen, len(folders[i].Name))
		maxTypeLen = max(maxTypeLen, len(folders[i].Type))
	}
	maxNameLen = min(maxNameLen, 40)
	maxTypeLen = min(maxTypeLen, 20)

	_, _ = fmt.Fprintf(w, "%-36s  %-*s  %-*s  %4s  %s\n", "ID", maxNameLen, "NAME", maxTypeLen, "TYPE", "SUBS", "UPDATED")
	_, _ = fmt.Fprintf(w, "%s  %s  %s  %s  %s\n",
		strings.Repeat("-", 36), strings.Repeat("-", maxNameLen), strings.Repeat("-", maxTypeLen),
		strings.Repeat("-", 4), strings.Repeat("-", 19))

	for i := range folders {
		folder := &folders[i]
		_, _ = fmt.Fprintf(w, "%-36s  %-*s  %-*s  %4d  %s\n",
			folder.ID,
			maxNameLen, truncate(folder.Name, maxNameLen),
			maxTypeLen, truncate(folder.Type, maxTypeLen),
			len(folder.SubFolders),
			folder.UpdatedAt.Format("2006-01-02 15:04:05"),
		)
	}

	_, _ = fmt.Fprintf(w, "\n%d folder(s)\n", len(folders))
	return nil
}

// FormatDelete formats delete results as human-readable text.
func (f *HumanFormatter) FormatDelete(w io.Writer, results []DeleteResult) error {
	for i := range results {
		r := &results[i]
		if r.Err != nil {
			_, _ = fmt.Fprintf(w, "Error: %s - %v\n", r.ID, r.Err)
			continue
		}
		if !f.Quiet {
			_, _ = fmt.Fprintf(w, "Deleted: %s\n", r.ID)
		}
	}
	return nil
}

// FormatError formats an error as human-readable text.
func (f *HumanFormatter) FormatError(w io.Writer, err error) error {
	_, _ = fmt.Fprintf(w, "Error: %v\n", err)
	return nil
}

// FormatProfileList formats a list of profiles as human-readable text.
func (f *HumanFormatter) FormatProfileList(w io.Writer, profiles []Profile, defaultName string) error {
	maxNameLen := 4     // "NAME"
	maxEndpointLen := 8 // "ENDPOINT"
	for i := range profiles {
		maxNameLen = max(maxNameLen, len(profiles[i].Name))
		maxEndpointLen = max(maxEndpointLen, len(profiles[i].Endpoint))
	}
	maxNameLen = min(maxNameLen, 20)
	maxEndpointLen = min(maxEndpointLen, 50)

	_, _ = fmt.Fprintf(w, "  %-*s  %-*s  %s\n", maxNameLen, "NAME", maxEndpointLen, "ENDPOINT", "USER")
	_, _ = fmt.Fprintf(w, "  %s  %s  %s\n", strings.Repeat("-", maxNameLen), strings.Repeat("-", maxEndpointLen), strings.Repeat("-", 20))

	for i := range profiles {
		p := &profiles[i]
		marker := " "
		if p.Name == defaultName {
			marker = "*"
		}

		_, _ = fmt.Fprintf(w, "%s %-*s  %-*s  %s\n",
			marker,
			maxNameLen, truncate(p.Name, maxNameLen),
			maxEndpointLen, truncate(p.Endpoint, maxEndpointLen),
			valueOrNotSet(p.User),
		)
	}

	return nil
}

// FormatProfileShow formats a single profile as human-readable text.
func (f *HumanFormatter) FormatProfileShow(w io.Writer, profile Profile, isDefault bool) error {
	_, _ = fmt.Fprintf(w, "Name:            %s", profile.Name)
	if isDefault {
		_, _ = fmt.Fprintf(w, " (default)")
	}
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintf(w, "Endpoint:        %s\n", profile.Endpoint)
	_, _ = fmt.Fprintf(w, "User:            %s\n", valueOrNotSet(profile.User))

	header := profile.IdentityHeader
	if header == "" {
		header = DefaultIdentityHeader
	}
	_, _ = fmt.Fprintf(w, "Identity header: %s\n", header)
	return nil
}

// JSONFormatter outputs JSON.
type JSONFormatter struct{}

// FormatFolder formats a folder as JSON.
func (f *JSONFormatter) FormatFolder(w io.Writer, folder *Folder) error {
	return writeJSON(w, folder)
}

// FormatFolders formats folders as a JSON array.
func (f *JSONFormatter) FormatFolders(w io.Writer, folders []Folder) error {
	if folders == nil {
		folders = []Folder{}
	}
	return writeJSON(w, folders)
}

// FormatDelete formats delete results as JSON.
func (f *JSONFormatter) FormatDelete(w io.Writer, results []DeleteResult) error {
	type jsonResult struct {
		ID      string `json:"id"`
		Deleted bool   `json:"deleted"`
		Error   string `json:"error,omitempty"`
	}

	output := struct {
		Results []jsonResult `json:"results"`
	}{
		Results: make([]jsonResult, len(results)),
	}

	for i, r := range results {
		jr := jsonResult{ID: r.ID, Deleted: r.Deleted}
		if r.Err != nil {
			jr.Error = r.Err.Error()
		}
		output.Results[i] = jr
	}

	return writeJSON(w, output)
}

// FormatError formats an error as JSON.
func (f *JSONFormatter) FormatError(w io.Writer, err error) error {
	output := struct {
		Error string `json:"error"`
	}{
		Error: err.Error(),
	}
	return writeJSON(w, output)
}

type jsonProfile struct {
	Name           string `json:"name"`
	Endpoint       string `json:"endpoint"`
	User           string `json:"user,omitempty"`
	IdentityHeader string `json:"identity_header,omitempty"`
	Default        bool   `json:"default"`
}

// FormatProfileList formats a list of profiles as JSON.
func (f *JSONFormatter) FormatProfileList(w io.Writer, profiles []Profile, defaultName string) error {
	output := struct {
		Profiles []jsonProfile `json:"profiles"`
	}{
		Profiles: make([]jsonProfile, len(profiles)),
	}

	for i := range profiles {
		p := &profiles[i]
		output.Profiles[i] = jsonProfile{
			Name:           p.Name,
			Endpoint:       p.Endpoint,
			User:           p.User,
			IdentityHeader: p.IdentityHeader,
			Default:        p.Name == defaultName,
		}
	}

	return writeJSON(w, output)
}

// FormatProfileShow formats a single profile as JSON.
func (f *JSONFormatter) FormatProfileShow(w io.Writer, profile Profile, isDefault bool) error {
	return writeJSON(w, jsonProfile{
		Name:           profile.Name,
		Endpoint:       profile.Endpoint,
		User:           profile.User,
		IdentityHeader: profile.IdentityHeader,
		Default:        isDefault,
	})
}

// writeJSON writes a value as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}
	return strings.Join(items, ", ")
}

func valueOrNotSet(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}
