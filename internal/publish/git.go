package publish

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/go-git/go-git/v5"
	ggitcfg "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"

	ferrors "git.home.luguber.info/inful/docpublish/internal/foundation/errors"
	"git.home.luguber.info/inful/docpublish/internal/logfields"
	"git.home.luguber.info/inful/docpublish/internal/workflow"
)

// GitSettings configures a GitPublisher.
type GitSettings struct {
	Branch      string
	Remote      string
	Message     string
	AuthorName  string
	AuthorEmail string
	// TokenEnv names the environment variable holding an HTTPS token.
	TokenEnv string
}

// GitPublisher commits the output directory onto the hosting branch of the
// working repository's remote and pushes it. The branch holds only the
// generated site; it is created as an orphan when the remote lacks it.
type GitPublisher struct {
	settings GitSettings
	now      func() time.Time
}

// NewGitPublisher creates a publisher with the given settings.
func NewGitPublisher(settings GitSettings) *GitPublisher {
	if settings.Branch == "" {
		settings.Branch = "gh-pages"
	}
	if settings.Remote == "" {
		settings.Remote = "origin"
	}
	if settings.Message == "" {
		settings.Message = "Update documentation"
	}
	return &GitPublisher{settings: settings, now: time.Now}
}

// Prepare checks that the working directory is a repository with the
// configured remote.
func (p *GitPublisher) Prepare(_ context.Context, opts workflow.Options) error {
	_, err := p.remoteURL(opts.Dir)
	return err
}

// Publish implements workflow.Publisher.
func (p *GitPublisher) Publish(ctx context.Context, outputDir string, opts workflow.Options) error {
	src := outputDir
	if !filepath.IsAbs(src) {
		src = filepath.Join(opts.Dir, outputDir)
	}
	if info, err := os.Stat(src); err != nil || !info.IsDir() {
		return ferrors.FileSystemError("output directory does not exist").
			WithContext("path", src).Build()
	}

	url, err := p.remoteURL(opts.Dir)
	if err != nil {
		return err
	}
	auth := p.auth()

	stage, err := os.MkdirTemp("", "docpublish-site-*")
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "create staging directory").Build()
	}
	defer func() { _ = os.RemoveAll(stage) }()

	repo, err := p.checkoutBranch(ctx, stage, url, auth)
	if err != nil {
		return err
	}

	if err := replaceTree(stage, src); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "stage documentation").Build()
	}

	wt, err := repo.Worktree()
	if err != nil {
		return gitError(err, "open worktree")
	}
	if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return gitError(err, "stage changes")
	}
	status, err := wt.Status()
	if err != nil {
		return gitError(err, "read status")
	}
	if status.IsClean() {
		slog.Info("Documentation unchanged, nothing to publish", logfields.Branch(p.settings.Branch))
		return nil
	}

	hash, err := wt.Commit(p.settings.Message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  p.settings.AuthorName,
			Email: p.settings.AuthorEmail,
			When:  p.now(),
		},
	})
	if err != nil {
		return gitError(err, "commit documentation")
	}

	ref := plumbing.NewBranchReferenceName(p.settings.Branch)
	err = repo.PushContext(ctx, &git.PushOptions{
		RemoteName: p.settings.Remote,
		RefSpecs:   []ggitcfg.RefSpec{ggitcfg.RefSpec(fmt.Sprintf("%s:%s", ref, ref))},
		Auth:       auth,
	})
	if err != nil && !stderrors.Is(err, git.NoErrAlreadyUpToDate) {
		return gitError(err, "push documentation")
	}

	slog.Info("Published documentation",
		logfields.Branch(p.settings.Branch),
		logfields.Remote(p.settings.Remote),
		slog.String("commit", hash.String()[:8]))
	return nil
}

func (p *GitPublisher) remoteURL(dir string) (string, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", gitError(err, "open repository").WithContext("dir", dir)
	}
	remote, err := repo.Remote(p.settings.Remote)
	if err != nil {
		return "", gitError(err, "look up remote").WithContext("remote", p.settings.Remote)
	}
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", ferrors.GitError("remote has no URL").WithContext("remote", p.settings.Remote).Build()
	}
	return urls[0], nil
}

func (p *GitPublisher) auth() transport.AuthMethod {
	if p.settings.TokenEnv == "" {
		return nil
	}
	token := os.Getenv(p.settings.TokenEnv)
	if token == "" {
		return nil
	}
	return &http.BasicAuth{Username: "token", Password: token}
}

// checkoutBranch prepares a repository in dir whose worktree is the current
// state of the hosting branch, or an empty orphan branch when the remote
// does not have it yet.
func (p *GitPublisher) checkoutBranch(ctx context.Context, dir, url string, auth transport.AuthMethod) (*git.Repository, error) {
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		return nil, gitError(err, "initialize staging repository")
	}
	if _, err := repo.CreateRemote(&ggitcfg.RemoteConfig{Name: p.settings.Remote, URLs: []string{url}}); err != nil {
		return nil, gitError(err, "configure remote")
	}

	branch := plumbing.NewBranchReferenceName(p.settings.Branch)
	tracking := plumbing.NewRemoteReferenceName(p.settings.Remote, p.settings.Branch)

	err = repo.FetchContext(ctx, &git.FetchOptions{
		RemoteName: p.settings.Remote,
		RefSpecs:   []ggitcfg.RefSpec{ggitcfg.RefSpec(fmt.Sprintf("+%s:%s", branch, tracking))},
		Auth:       auth,
	})
	switch {
	case err == nil, stderrors.Is(err, git.NoErrAlreadyUpToDate):
	case stderrors.Is(err, git.NoMatchingRefSpecError{}), stderrors.Is(err, transport.ErrEmptyRemoteRepository):
		slog.Debug("Hosting branch missing on remote, starting orphan branch", logfields.Branch(p.settings.Branch))
		if err := repo.Storer.SetReference(plumbing.NewSymbolicReference(plumbing.HEAD, branch)); err != nil {
			return nil, gitError(err, "create orphan branch")
		}
		return repo, nil
	default:
		return nil, gitError(err, "fetch hosting branch").WithContext("remote", url)
	}

	remoteRef, err := repo.Reference(tracking, true)
	if err != nil {
		return nil, gitError(err, "resolve hosting branch")
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, gitError(err, "open worktree")
	}
	if err := wt.Checkout(&git.CheckoutOptions{Branch: branch, Hash: remoteRef.Hash(), Create: true}); err != nil {
		return nil, gitError(err, "check out hosting branch")
	}
	return repo, nil
}

// replaceTree removes everything in dst except .git and copies src into it.
func replaceTree(dst, src string) error {
	entries, err := os.ReadDir(dst)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.Name() == git.GitDirName {
			continue
		}
		if err := os.RemoveAll(filepath.Join(dst, e.Name())); err != nil {
			return err
		}
	}

	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		if d.Name() == git.GitDirName {
			return filepath.SkipDir
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o750)
		}
		return copyFile(path, target)
	})
}

func copyFile(src, dst string) error {
	in, err := os.Open(src) // #nosec G304 -- walking the output directory
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600) // #nosec G304 -- staging directory
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

func gitError(err error, message string) *ferrors.ClassifiedError {
	return ferrors.WrapError(err, ferrors.CategoryGit, message).WithRetry(ferrors.RetryBackoff).Build()
}
