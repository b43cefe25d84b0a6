/*
Package operation implements the run loop of gsr.

	+-------------+
	|  Provider   |
	| (git files) |
	+------+------+
	       |
	+------+------+
	|   Filter    |
	|  Resolver   |
	+------+------+
	       |
	+------+------+       +-------------+
	|   Content   +------>+  Match Log  |
	| search/fix  |       |   (state)   |
	+------+------+       +-------------+
	       |
	+------+------+
	|   Rename    |
	| (git mv)    |
	+-------------+

🎯 Purpose:
- Selects files through the provider and the filter set
- Runs the expression chain over every file, one at a time
- Reports matches and appends them to the match log
- Rewrites paths once every file has been processed

🔄 Flow per file:
1. Stat and skip anything that is missing or not a regular file
2. Decode (utf-8, falling back to latin-1)
3. Transform and report
4. Fix mode: re-encode and write only when the bytes differ
5. Upsert the matches into the store for the current mode

⚡ Notes:
- Processing is sequential and stops at the first error
- Nothing is rolled back; matches already logged stay on disk
- The context is checked between files

🔍 Example:

	err := operation.Run(ctx, operation.Options{
		Expressions: exprs,
		Resolver:    resolver,
		Provider:    p,
		Repository:  repo,
		SearchStore: state.New(searchPath),
		FixStore:    state.New(fixPath),
		Reporter:    log.New(ctx, os.Stderr),
		Fix:         true,
		Renames:     true,
	})
*/
package operation
