/*
Package main implements f2go, a small cell-addressed Forth: a dictionary
built in a single array of 64-bit cells, an outer interpreter that parses
and dispatches between interpreting and compiling, and a threaded inner
interpreter that walks compiled definitions by hand.

Everything the system knows about lives in two fixed arrays set up at
construction: the cell store (headers, variables, constants, stacks,
compiled bodies) and the string store (the names of every word, as
length-prefixed counted strings). There is no garbage collector and no
growth; HERE and CONTEXT are rolled back by MARKER/FORGET instead.

A word's entry in the cell store always begins with one of a small set of
opcode constants (VARIABLE, CONSTANT, DEFINITION, BUILTIN, ...). EXECUTE
dispatches on that opcode; the inner interpreter's threaded loop walks a
colon definition's body cell by cell, keeping its own program counter and
return stack rather than recursing through the host language.

The outer interpreter (EVAL) tokenises a line, looks the token up in the
dictionary, and either executes it immediately or compiles a reference to
it, depending on STATE. Unresolved tokens fall back to number parsing;
failing that, EVAL warns through the diagnostic sink and ABORTs, which is
the one recovery primitive every error path in the system uses.

See vm.go for the Machine type, opcodes.go for the opcode/tag-bit layout,
dict.go for the dictionary builder, parser.go for TEXT/PARSE, outer.go for
EVAL/QUERY/QUIT, inner.go for EXECUTE and the threaded loop, and the
builtins_*.go files for the primitive table.
*/
package main
