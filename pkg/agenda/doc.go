// Package agenda parses tagged agenda text into a graph model.
//
// # Overview
//
// An agenda is a short, hand-written paragraph annotated with bracketed tags:
//
//	[theme]Resilient supply chains[/theme]
//	[component time=past]Manual audits[/component]
//	[component]Sensor network[/component]
//	[subcomponent of=Sensor network]Edge gateways[/subcomponent]
//	[relation:enables]Sensor network->Predictive routing[/relation:enables]
//
// [Parse] turns such text into a [Model]: a theme, an ordered list of
// [Component] values assigned to a [Lane] (past, current or future), and an
// ordered list of typed [Relation] values between component names.
//
// # Fallbacks
//
// Input is expected to be informal, so parsing never fails. When no theme tag
// is present the first sentence becomes the theme. When no component tags are
// present the parser tries, in order:
//
//  1. a "components: a, b, c" list
//  2. an optional [PhraseExtractor] (see [WithPhraseExtractor])
//  3. splitting the untagged remainder on commas and semicolons
//
// [Parser.ParseWithSource] reports which of these supplied the components.
//
// # Identifiers
//
// [ID] maps any label to a node identifier that is safe in both Mermaid and
// Graphviz DOT. It is total and deterministic but not injective: "Alpha Beta"
// and "Alpha-Beta" share the identifier "NAlpha_Beta".
package agenda
