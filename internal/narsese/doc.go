// Package narsese reads and writes the text form of sentences.
//
// The accepted grammar is the usual Narsese subset:
//
//	task      = [budget] term punctuation [truth]
//	budget    = "$" p [";" d [";" q]] "$"
//	truth     = "%" f [";" c] "%"
//	term      = atom | "<" term copula term ">" | "{" terms "}" | "[" terms "]"
//	          | "(" op "," terms ")"
//	copula    = "-->" | "<->" | "==>" | "<=>"
//	op        = "&" | "|" | "-" | "~" | "*" | "/" | "\" | "--" | "&&" | "||"
//
// Inside an image, "_" marks the placeholder. Variables such as $x are read
// as plain atoms.
package narsese
