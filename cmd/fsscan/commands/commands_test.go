package commands

import (
	"bytes"
	"github.com/agamayoga/fsscan/internal/manifest"
	"github.com/agamayoga/fsscan/pkg/fsx"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"testing"
)

// resetFlags restores every flag to its default, since cobra keeps parsed values between runs.
func resetFlags(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	})

	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return buf.String(), err
}

func makeTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("hello"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "sub"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "sub", "b.txt"), []byte("world!"), 0644))
	return root
}

func TestScanCommand(t *testing.T) {
	root := makeTree(t)
	output := filepath.Join(t.TempDir(), "scan.json")

	out, err := execute(t, "scan", root, "-o", output, "--total", "100")
	require.NoError(t, err)
	assert.Contains(t, out, "Scanning "+root)
	assert.Contains(t, out, "Found 4 files and folders, 0 errors, 11.0% of drive space")
	assert.Contains(t, out, "Done!")

	m, err := manifest.Load(output)
	require.NoError(t, err)
	assert.Equal(t, 4, m.Len())

	rec, ok := m.Lookup(filepath.Join(root, "a.txt"), false)
	require.True(t, ok)
	assert.Equal(t, fsx.StringChecksum("hello"), rec.SHA1)

	t.Run("existing output requires force", func(t *testing.T) {
		_, err := execute(t, "scan", root, "-o", output)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "output file already exists")
	})

	t.Run("resume", func(t *testing.T) {
		resumed := filepath.Join(t.TempDir(), "resumed.json")
		out, err := execute(t, "scan", root, "-i", output, "-o", resumed, "--total", "100")
		require.NoError(t, err)
		assert.Contains(t, out, "Found 4 files and folders, 0 errors")

		m2, err := manifest.Load(resumed)
		require.NoError(t, err)
		assert.Equal(t, m.Records(), m2.Records())
	})

	t.Run("exclude", func(t *testing.T) {
		out, err := execute(t, "scan", root, "--exclude", "*.txt", "--total", "100")
		require.NoError(t, err)
		assert.Contains(t, out, "Found 2 files and folders, 0 errors, 0.0% of drive space")
	})

	t.Run("missing input", func(t *testing.T) {
		_, err := execute(t, "scan", root, "-i", filepath.Join(root, "missing.json"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "input file not found")
	})

	t.Run("missing target", func(t *testing.T) {
		_, err := execute(t, "scan", filepath.Join(root, "missing"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid scan target")
	})
}

func TestCompareCommand(t *testing.T) {
	dir := t.TempDir()
	primary := filepath.Join(dir, "a.json")
	secondary := filepath.Join(dir, "b.json")
	conflicts := filepath.Join(dir, "conflicts.json")

	require.NoError(t, manifest.Save(primary, []manifest.Record{
		{Path: `C:\`, IsDirectory: true},
		{Path: `C:\a.txt`, Length: manifest.Int64(5), SHA1: fsx.StringChecksum("hello")},
		{Path: `C:\b.txt`, Length: manifest.Int64(6), SHA1: fsx.StringChecksum("world!")},
	}))
	require.NoError(t, manifest.Save(secondary, []manifest.Record{
		{Path: `D:\`, IsDirectory: true},
		{Path: `D:\A.TXT`, Length: manifest.Int64(5), SHA1: fsx.StringChecksum("hello")},
	}))

	out, err := execute(t, "compare", primary, secondary, "-o", conflicts)
	require.NoError(t, err)
	assert.Contains(t, out, "A: 3 records")
	assert.Contains(t, out, "B: 2 records")
	assert.Contains(t, out, "Found 1 conflicts")

	got, err := manifest.LoadConflicts(conflicts)
	require.NoError(t, err)
	assert.Equal(t, []manifest.Conflict{{Path: `C:\b.txt`, Message: manifest.MissingOnSecondary}}, got)

	t.Run("printed without output", func(t *testing.T) {
		out, err := execute(t, "compare", primary, secondary)
		require.NoError(t, err)
		assert.Contains(t, out, `C:\b.txt: `+manifest.MissingOnSecondary)
	})

	t.Run("prefix length", func(t *testing.T) {
		out, err := execute(t, "compare", primary, secondary, "--prefix-length", "0")
		require.NoError(t, err)
		assert.Contains(t, out, "Found 5 conflicts")
		assert.Contains(t, out, `D:\A.TXT: `+manifest.MissingOnPrimary)

		_, err = execute(t, "compare", primary, secondary, "--prefix-length", "-1")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid prefix length")
	})

	t.Run("missing manifest", func(t *testing.T) {
		_, err := execute(t, "compare", primary, filepath.Join(dir, "missing.json"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "file not found")
	})
}

func TestChecksumAndVerifyCommands(t *testing.T) {
	root := makeTree(t)
	list := filepath.Join(t.TempDir(), "list.sha1")

	out, err := execute(t, "checksum", filepath.Join(root, "a.txt"), filepath.Join(root, "sub"))
	require.NoError(t, err)
	assert.Contains(t, out, fsx.StringChecksum("hello")+" *"+filepath.Join(root, "a.txt"))
	assert.Contains(t, out, fsx.StringChecksum("world!")+" *"+filepath.Join(root, "sub", "b.txt"))
	require.NoError(t, os.WriteFile(list, []byte(out), 0644))

	out, err = execute(t, "verify", list)
	require.NoError(t, err)
	assert.Contains(t, out, "[ OK ]")

	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("changed"), 0644))
	out, err = execute(t, "verify", list)
	require.Error(t, err)
	assert.Contains(t, out, "[FAIL]")
	assert.Contains(t, err.Error(), "1 failed")

	out, err = execute(t, "checksum", "--string", "hello")
	require.NoError(t, err)
	assert.Equal(t, "aaf4c61ddcc5e8a2dabede0f3b482cd9aea9434d\n", out)

	_, err = execute(t, "checksum")
	require.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "fsscan 0.1.0")
}
