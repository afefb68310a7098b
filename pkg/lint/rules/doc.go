// Package rules provides the built-in eflint rules.
//
// Each rule matches one Entity Framework 6 query shape by resolved method
// identity and offers a fix that rewrites the call in place:
//
//   - EF1000 include-string-path: Include("A.B") becomes Include(a => a.A.B),
//     navigating collection-valued steps through Select.
//   - EF1001 projection-constructor: query.Select(x => new T(x)) becomes
//     query.AsEnumerable().Select(x => new T(x)).
//   - EF1002 pagination-argument: Skip(n) and Take(n) become the lambda
//     overloads Skip(() => n) and Take(() => n), hoisting non-identifier
//     arguments into a local first.
//
// # Registration
//
// Rules register with lint.DefaultRegistry from init. Every rule implements
// both lint.Rule and lint.Fixer.
package rules
