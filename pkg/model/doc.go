// Package model implements the named register tree.
//
// # Hierarchy
//
// A register map is a static tree of named entities:
//
//	Group (uart, bound to one bus)
//	├── Register ctrl    @0x4000_0000, 32 bit
//	│   ├── Field enable [0:0]
//	│   └── Field mode   [3:1]
//	│       ├── SubField fast [1:1]
//	│       └── SubField lowp [3:2]
//	└── Register status  @0x4000_0004, 32 bit, read-only
//
// Sibling names are unique. Field bit ranges lie within the register width
// and subfield ranges lie within their parent field. The whole tree is
// validated once by NewGroup and is immutable afterwards.
//
// # Write Functions
//
// Every field and register carries a Policy describing what happens to bits
// that a write does not explicitly target. The policy's WriteFunc selects the
// identity contribution of untouched bits (see the table on WriteFunc), and
// its Access restricts reads or writes. Fields without an explicit policy use
// DefaultPolicy; subfields without one inherit their parent field's policy.
// A register's policy applies to its bits that no field covers.
//
// # Resolution
//
// Resolve finds the unique entity a dotted path denotes, searching
// implicitly through descendants when the first segment does not name the
// starting entity. The outcome is always one of resolved, mismatch,
// too-long, ambiguous or unresolved.
package model
