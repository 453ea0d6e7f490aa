package gitstatus

import (
	"github.com/go-git/go-git/v5/plumbing"
)

// DetachedHeadName is reported when HEAD does not point at a branch.
const DetachedHeadName = plumbing.HEAD

// BranchName returns the short name of the checked out branch, or "HEAD" when
// detached. The boolean is false outside a repository or when HEAD is unborn.
func BranchName(rootPath string) (string, bool) {
	repository, openError := openRepository(rootPath)
	if openError != nil {
		return "", false
	}
	head, headError := repository.Head()
	if headError != nil {
		return "", false
	}
	if head.Name().IsBranch() {
		return head.Name().Short(), true
	}
	return string(DetachedHeadName), true
}
