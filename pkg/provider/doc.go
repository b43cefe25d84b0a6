/*
Package provider defines the version control collaborator used by gsr.

	            +-------------+
	            |  Provider   |
	            |   (VCS)     |
	            +------+------+
	                   |
	      +------------+------------+
	      |                         |
	+-----+-----+             +-----+-----+
	|    git    |             |   mocks   |
	| (os/exec) |             |  (tests)  |
	+-----------+             +-----------+

🎯 Purpose:
- Lists the tracked files a run may touch
- Locates the working tree root and the current branch
- Moves files so renames stay tracked

🔄 Flow:
1. The CLI builds a provider for the working directory
2. Resolve probes root and branch concurrently
3. The content operation reads ListFiles
4. The rename operation calls Move

⚡ Notes:
- Every failure is fatal and wraps ErrGit with the command's stderr
- No retries: all calls are local

🔍 Example:

	p, err := provider.Get(ctx, "git", ".")
	if err != nil {
		return err
	}
	repo, err := provider.Resolve(ctx, p)
*/
package provider
