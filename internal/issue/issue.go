// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"cmp"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

type Id int

const (
	ResourceNotFoundId Id = iota + 1
	HelpNotFoundId
	PathOverflowId
	FlagsParseFailedId
	ConfigLoadFailedId
	UnknownListKeyId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink
	extLinks []HttpLink // external links that might be useful for the user
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

// Render returns the page as terminal markdown, with a "See also" list
// when the issue carries links.
func (i *Issue) Render(stylePath string) (string, error) {
	md := string(i.mdMsg)
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		md += "\n\n## See also\n"
		for _, link := range i.docLinks {
			md += "\n- <" + string(link) + ">"
		}
		for _, link := range i.extLinks {
			md += "\n- <" + string(link) + ">"
		}
	}
	return render(md, stylePath)
}

var (
	render = glamour.Render

	resourceNotFoundIssue = &Issue{
		id: ResourceNotFoundId,
		mdMsg: `
# Resource not found!

No directory on the search path holds the file you asked for.

## Search order
1. The name itself, when it is absolute (/, ~, C:/ or %VAR%)
2. The base directory
3. The temporary search path (searchpath.temp)
4. The user search path (searchpath.main)
5. The standard path (searchpath.static), unless disabled

## Things you can try
- See every probe that was made:
~~~
$ respath explain NAME --ext .pd_linux
~~~

- Add the directory that holds the file:
~~~
$ respath list append searchpath.main /path/to/externals
~~~`,
	}

	helpNotFoundIssue = &Issue{
		id: HelpNotFoundId,
		mdMsg: `
# Couldn't find a help patch!

Every help naming convention was tried on every help tier.

## Names tried, in order
- NAME-help.LANG_REGION.pd
- NAME-help.LANG.pd
- NAME-help.pd
- help-NAME

## Things you can try
- Check the help path:
~~~
$ respath list get helppath.main
~~~

- Add the directory holding the help patch:
~~~
$ respath list append helppath.main /path/to/doc
~~~`,
	}

	pathOverflowIssue = &Issue{
		id: PathOverflowId,
		mdMsg: `
# Path too long!

A candidate path built from a search directory and the file name is longer
than this system can open. The search was stopped before touching the
filesystem.

## Things you can try
- Shorten the offending search directory
- Remove stale entries from the search path:
~~~
$ respath list free searchpath.temp
~~~`,
	}

	flagsParseFailedIssue = &Issue{
		id: FlagsParseFailedId,
		mdMsg: `
# Failed to parse startup flags!

The startup flags string could not be split into arguments, or one of the
arguments is not a known flag. No flag was applied.

## Common issues
- A quote that is never closed: ` + "`-path \"My Patches`" + `
- A backslash at the very end of the string
- A string of 1000 bytes or more

## Things you can try
~~~
$ respath tokenize '-path "My Patches" -lib zexy'
$ respath flags parse '-path "My Patches" -lib zexy'
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

The configuration file exists but is not valid.

## Things you can try
- Print the file location:
~~~
$ respath config path
~~~

- Write a fresh default file:
~~~
$ respath config init --force
~~~`,
	}

	unknownListKeyIssue = &Issue{
		id: UnknownListKeyId,
		mdMsg: `
# Unknown list key!

The named list has never been created. Reading it yields nothing and
freeing it does nothing.

## Things you can try
- Show every defined key:
~~~
$ respath list keys
~~~

- Create the key by appending to it:
~~~
$ respath list append my.list /some/dir
~~~`,
	}

	issues = map[Id]*Issue{
		resourceNotFoundIssue.Id(): resourceNotFoundIssue,
		helpNotFoundIssue.Id():     helpNotFoundIssue,
		pathOverflowIssue.Id():     pathOverflowIssue,
		flagsParseFailedIssue.Id(): flagsParseFailedIssue,
		configLoadFailedIssue.Id(): configLoadFailedIssue,
		unknownListKeyIssue.Id():   unknownListKeyIssue,
	}
)

// Values returns every catalogued issue ordered by id.
func Values() []*Issue {
	all := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		all = append(all, i)
	}
	slices.SortFunc(all, func(a, b *Issue) int { return cmp.Compare(a.id, b.id) })
	return all
}

func Get(id Id) *Issue {
	return issues[id]
}
