// Package io reads agenda text and reads and writes agenda models.
//
// # Input
//
// [ReadText] reads agenda markup from a file path, or from standard input
// when the path is "-". Failures are reported with
// errors.ErrCodeInputUnreadable.
//
// # Model Export
//
// A parsed [agenda.Model] can be exported as JSON or YAML:
//
//	{
//	  "theme": "Roadmap",
//	  "components": [
//	    {"name": "Parser", "time": "past"},
//	    {"name": "Lexer", "time": "current", "parent": "Parser"}
//	  ],
//	  "relations": [
//	    {"from": "Parser", "to": "Lexer", "type": "uses"}
//	  ]
//	}
//
// Use [WriteModel] with an [Encoding] to write to any io.Writer and
// [ReadModel] to read one back. Round-tripping preserves component order,
// which determines rendering order.
//
// [agenda.Model]: github.com/matzehuels/agendagraph/pkg/agenda.Model
package io
