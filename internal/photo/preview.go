package photo

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"

	"github.com/matthewdavidson09/offboardctl/internal/active_directory"
	"github.com/matthewdavidson09/offboardctl/internal/ldapclient"
	"github.com/matthewdavidson09/offboardctl/tools"
)

// Fetch returns the user's stored photo bytes together with its decoded
// dimensions, failing if no photo is stored or the bytes do not decode.
func Fetch(client *ldapclient.LDAPClient, sam string) ([]byte, int, int, error) {
	data, err := active_directory.GetUserPhoto(client, sam)
	if err != nil {
		return nil, 0, 0, err
	}

	img, err := Decode(data)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("stored photo for %s: %w", sam, err)
	}

	bounds := img.Bounds()
	return data, bounds.Dx(), bounds.Dy(), nil
}

// Preview fetches the stored photo and opens it in the platform image
// viewer, blocking until the viewer is dismissed. The temp file backing the
// preview is removed unconditionally afterward.
func Preview(client *ldapclient.LDAPClient, sam string) error {
	data, w, h, err := Fetch(client, sam)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp("", "offboardctl-preview-*.jpg")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp file %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file %s: %w", tmpPath, err)
	}

	tools.Log.WithFields(map[string]interface{}{
		"sam":    sam,
		"width":  w,
		"height": h,
	}).Info("Opening stored photo")

	return openPreview(tmpPath)
}

// SaveTo writes the stored photo bytes to destPath without opening a viewer.
func SaveTo(client *ldapclient.LDAPClient, sam, destPath string) error {
	data, w, h, err := Fetch(client, sam)
	if err != nil {
		return err
	}
	if err := os.WriteFile(destPath, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", destPath, err)
	}
	tools.Log.Infof("Wrote %dx%d photo to %s", w, h, destPath)
	return nil
}

// openPreview shows the file and blocks until the preview is dismissed.
// The macOS and Windows viewers can wait on the spawned process; xdg-open
// hands off to the desktop handler and exits immediately, so there the
// preview is held open until Enter is pressed. The temp file must outlive
// this call either way.
func openPreview(path string) error {
	switch runtime.GOOS {
	case "darwin":
		if err := exec.Command("open", "-W", path).Run(); err != nil {
			return fmt.Errorf("opening image viewer: %w", err)
		}
		return nil
	case "windows":
		if err := exec.Command("cmd", "/C", "start", "/WAIT", "", path).Run(); err != nil {
			return fmt.Errorf("opening image viewer: %w", err)
		}
		return nil
	default:
		if err := exec.Command("xdg-open", path).Start(); err != nil {
			return fmt.Errorf("opening image viewer: %w", err)
		}
		return waitForDismissal(os.Stdin, os.Stdout)
	}
}

// waitForDismissal blocks until a line (or EOF) is read from in.
func waitForDismissal(in io.Reader, out io.Writer) error {
	fmt.Fprint(out, "Press Enter to close the preview... ")
	if _, err := bufio.NewReader(in).ReadString('\n'); err != nil && err != io.EOF {
		return fmt.Errorf("waiting for preview dismissal: %w", err)
	}
	return nil
}
