package search

import (
	"strings"

	"github.com/cupsnap/cup/pkg/node"
)

// roleSynonyms maps natural phrases (and every canonical role, to the
// singleton of itself) to the set of canonical roles they resolve to
// (§4.8 "Role resolution"). Phrase keys are checked longest-first by
// resolveRoleSpan.
var roleSynonyms = map[string][]node.Role{
	"search bar":    {node.RoleSearch, node.RoleSearchbox, node.RoleTextbox, node.RoleCombobox},
	"search box":    {node.RoleSearchbox, node.RoleTextbox},
	"text field":    {node.RoleTextbox},
	"text box":      {node.RoleTextbox},
	"input field":   {node.RoleTextbox, node.RoleSearchbox},
	"check box":     {node.RoleCheckbox},
	"radio button":  {node.RoleRadio},
	"drop down":     {node.RoleCombobox},
	"dropdown":      {node.RoleCombobox},
	"menu item":     {node.RoleMenuItem, node.RoleMenuItemCheckbox, node.RoleMenuItemRadio},
	"tab":           {node.RoleTab},
	"tabs":          {node.RoleTab, node.RoleTablist},
	"btn":           {node.RoleButton},
	"button":        {node.RoleButton},
	"link":          {node.RoleLink},
	"image":         {node.RoleImg},
	"img":           {node.RoleImg},
	"picture":       {node.RoleImg},
	"heading":       {node.RoleHeading},
	"title":         {node.RoleHeading},
	"list":          {node.RoleList},
	"list item":     {node.RoleListItem},
	"window":        {node.RoleWindow},
	"dialog":        {node.RoleDialog},
	"popup":         {node.RoleDialog},
	"toggle":        {node.RoleSwitch, node.RoleCheckbox},
	"switch":        {node.RoleSwitch},
	"slider":        {node.RoleSlider},
	"progress bar":  {node.RoleProgressbar},
	"scroll bar":    {node.RoleScrollbar},
	"toolbar":       {node.RoleToolbar},
	"table":         {node.RoleTable},
	"cell":          {node.RoleCell},
	"row":           {node.RoleRow},
	"tree":          {node.RoleTree},
	"navigation":    {node.RoleNavigation},
	"nav":           {node.RoleNavigation},
	"sidebar":       {node.RoleComplementary},
	"footer":        {node.RoleContentInfo},
	"header":        {node.RoleBanner},
	"form":          {node.RoleForm},
	"alert":         {node.RoleAlert, node.RoleAlertDialog},
	"tooltip":       {node.RoleTooltip},
	"combo box":     {node.RoleCombobox},
	"combobox":      {node.RoleCombobox},
	"spinner":       {node.RoleSpinbutton},
	"group":         {node.RoleGroup},
	"region":        {node.RoleRegion},
}

func init() {
	for _, r := range node.Roles {
		if _, exists := roleSynonyms[string(r)]; !exists {
			roleSynonyms[string(r)] = []node.Role{r}
		}
	}
}

// resolveRoleSpan scans tokens left-to-right for the longest contiguous
// 1-to-3-token substring matching an entry in roleSynonyms. Returns the
// matched roles, the starting index and length of the consumed span, and
// ok.
func resolveRoleSpan(tokens []string) (roles []node.Role, start, span int, ok bool) {
	for span := 3; span >= 1; span-- {
		if span > len(tokens) {
			continue
		}
		for start := 0; start+span <= len(tokens); start++ {
			phrase := joinTokens(tokens[start : start+span])
			if roles, ok := roleSynonyms[phrase]; ok {
				return roles, start, span, true
			}
		}
	}
	return nil, 0, 0, false
}

func joinTokens(tokens []string) string {
	if len(tokens) == 1 {
		return tokens[0]
	}
	out := tokens[0]
	for _, t := range tokens[1:] {
		out += " " + t
	}
	return out
}

// resolveRoleQuery implements §4.8's fallback chain for an explicit role
// string supplied on the request: literal lookup, then per-token lookup,
// then (if the query is ≥3 chars) a substring match against every
// canonical role name.
func resolveRoleQuery(q string) []node.Role {
	if q == "" {
		return nil
	}
	if roles, ok := roleSynonyms[q]; ok {
		return roles
	}
	for _, tok := range Tokenize(q) {
		if roles, ok := roleSynonyms[tok]; ok {
			return roles
		}
	}
	if len(q) >= 3 {
		var out []node.Role
		for _, r := range node.Roles {
			if strings.Contains(string(r), q) {
				out = append(out, r)
			}
		}
		return out
	}
	return nil
}
