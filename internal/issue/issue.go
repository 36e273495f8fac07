// SPDX-License-Identifier: EPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

type Id int

const (
	FileNotFoundId Id = iota + 1
	LibraryNotFoundId
	ManifestParseErrorId
	VersionConflictId
	ConfigParseErrorId
	DynamicConfigFailedId
	UnknownOptionId
	SettingsLoadFailedId
	PermissionDeniedId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // pages of the twist docs covering this issue
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n"
		extraMd += "## See also\n"
		for _, link := range i.docLinks {
			extraMd += "- [" + string(link) + "](" + string(link) + ")\n"
		}
		for _, link := range i.extLinks {
			extraMd += "- [" + string(link) + "](" + string(link) + ")\n"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	fileNotFoundIssue = &Issue{
		id: FileNotFoundId,
		mdMsg: `
# File not found!

A file named on the command line does not exist.

## Things you can try:
- Check the path for typos
- Paths are resolved against the working directory, or against ` + "`--dir`" + ` when given`,
	}

	libraryNotFoundIssue = &Issue{
		id: LibraryNotFoundId,
		mdMsg: `
# Library not found!

A library named in a ` + "`libraries`" + ` section could not be resolved to a directory
containing a ` + "`package.json`" + `.

## Lookup order:
1. Absolute and ` + "`./`" + ` or ` + "`../`" + ` paths, relative to the library that names them
2. ` + "`node_modules`" + ` directories walking up from that library
3. ` + "`node_modules`" + ` under the project directory
4. Directories listed in ` + "`NODE_PATH`" + `

## Things you can try:
- Install the library:
~~~
$ npm install <library>
~~~
- Check the spelling of the library name in ` + "`.twistrc`" + ` or ` + "`twist.config.lua`",
		extLinks: []HttpLink{"https://nodejs.org/api/modules.html#loading-from-node_modules-folders"},
	}

	manifestParseErrorIssue = &Issue{
		id: ManifestParseErrorId,
		mdMsg: `
# Failed to read package.json!

Every library root needs a readable ` + "`package.json`" + ` whose ` + "`name`" + ` and
` + "`version`" + ` fields, when present, are strings.

## Things you can try:
- Validate the file:
~~~
$ node -e "require('./package.json')"
~~~
- Reinstall the library if its manifest was damaged`,
	}

	versionConflictIssue = &Issue{
		id: VersionConflictId,
		mdMsg: `
# Version conflict!

The same library was loaded twice with different versions. Only one version of a
library may contribute configuration to a build.

## Things you can try:
- Read the two load chains above to see which dependents pull each version
- Align the dependency ranges so a single version is installed:
~~~
$ npm dedupe
$ npm ls <library>
~~~`,
	}

	configParseErrorIssue = &Issue{
		id: ConfigParseErrorId,
		mdMsg: `
# Failed to parse configuration!

A ` + "`.twistrc`" + ` file is not valid JSON, or a section has the wrong shape.

## Section shapes:
~~~json
{
  "libraries": ["@twist/core", ["@twist/ui", {"theme": "dark"}]],
  "decorators": {"Bind": {"module": "@twist/core", "export": "Bind"}},
  "components": [["Button", {"module": "./Button"}]],
  "babelPlugins": ["some-plugin", ["other-plugin", {"loose": true}]],
  "options": {"useBabelModuleResolver": true},
  "context": {"browser": {"options": {"targets": {"browsers": "last 2 versions"}}}}
}
~~~

## Things you can try:
- Comments and trailing commas are accepted; other JSON errors are not
- The error path (for example ` + "`decorators.Bind.module`" + `) points at the offending value`,
	}

	dynamicConfigFailedIssue = &Issue{
		id: DynamicConfigFailedId,
		mdMsg: `
# Dynamic configuration failed!

Running ` + "`twist.config.lua`" + ` raised an error, timed out, or returned something that is
not a configuration table.

## Things you can try:
- Return a table, or a function that takes ` + "`(options, library)`" + ` and returns one
- Only the ` + "`base`" + `, ` + "`table`" + `, ` + "`string`" + ` and ` + "`math`" + ` libraries are available
- Configuration tables must not contain functions or reference themselves`,
		extLinks: []HttpLink{"https://www.lua.org/manual/5.1/"},
	}

	unknownOptionIssue = &Issue{
		id: UnknownOptionId,
		mdMsg: `
# Unknown option!

Only the documented options can be set through ` + "`options`" + ` sections or ` + "`--set`" + `.

## Things you can try:
- List the supported options:
~~~
$ twistconfig option list
~~~`,
	}

	settingsLoadFailedIssue = &Issue{
		id: SettingsLoadFailedId,
		mdMsg: `
# Failed to load settings!

The twistconfig settings file could not be read or does not match the schema.

## Things you can try:
- Check the CUE syntax of ` + "`twistconfig.cue`" + `
- Show the effective settings:
~~~
$ twistconfig settings show
~~~
- Remove the file to fall back to defaults`,
		extLinks: []HttpLink{"https://cuelang.org/docs/"},
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Permission denied!

A configuration file or library directory could not be read.

## Things you can try:
- Check the file permissions:
~~~
$ ls -l .twistrc twist.config.lua package.json
~~~`,
	}

	catalog = []*Issue{
		fileNotFoundIssue,
		libraryNotFoundIssue,
		manifestParseErrorIssue,
		versionConflictIssue,
		configParseErrorIssue,
		dynamicConfigFailedIssue,
		unknownOptionIssue,
		settingsLoadFailedIssue,
		permissionDeniedIssue,
	}

	issues = func() map[Id]*Issue {
		m := make(map[Id]*Issue, len(catalog))
		for _, i := range catalog {
			m[i.Id()] = i
		}
		return m
	}()
)

// Values returns every catalog entry in Id order.
func Values() []*Issue {
	return slices.Clone(catalog)
}

func Get(id Id) *Issue {
	return issues[id]
}
