package cli

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mitchellh/go-ps"

	"github.com/pichane/iquit-cli/internal/constants"
	"github.com/pichane/iquit-cli/internal/keyring"
)

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false

	// Check 1: storage reachable
	if err := checkStorage(ctx); err != nil {
		fmt.Printf("❌ Storage reachable: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Storage reachable: OK (%s)\n", ctx.Store.GetConfigPath())
	}

	// Check 2: OS keyring
	if keyring.IsAvailable() {
		fmt.Printf("✓ OS keyring: OK\n")
	} else {
		fmt.Printf("⚠ OS keyring: WARNING\n")
		fmt.Printf("   Keyring unavailable, auth token falls back to the local store\n")
	}

	// Check 3: session token
	checkToken(ctx)

	// Check 4: API reachable (skipped for debug sessions, which never call out)
	if ctx.Session.Auth.IsDebugMode() {
		fmt.Printf("⊘ API reachable: SKIPPED (debug session)\n")
	} else if err := checkAPI(ctx); err != nil {
		fmt.Printf("⚠ API reachable: WARNING\n")
		fmt.Printf("   %v (reads degrade to zero values while offline)\n", err)
	} else {
		fmt.Printf("✓ API reachable: OK (%s)\n", ctx.BaseURL)
	}

	// Check 5: duplicate processes
	if err := checkDuplicateProcess(); err != nil {
		fmt.Printf("⚠ Single instance: WARNING\n")
		fmt.Printf("   %v\n", err)
	} else {
		fmt.Printf("✓ Single instance: OK\n")
	}

	fmt.Println()
	if hasError {
		return fmt.Errorf("diagnostics found problems")
	}
	fmt.Println("All checks passed.")
	return nil
}

func checkStorage(ctx *Context) error {
	if _, err := ctx.Store.GetValue(constants.KeyIsLoggedIn); err != nil {
		return err
	}
	return nil
}

// checkToken reports on the stored session token. Claims are decoded
// without signature verification, purely for display.
func checkToken(ctx *Context) {
	token := ctx.Session.Auth.Token()
	switch {
	case token == "":
		fmt.Printf("⊘ Session token: SKIPPED (not logged in)\n")
	case token == constants.DebugToken:
		fmt.Printf("✓ Session token: OK (debug token)\n")
	default:
		parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
		if err != nil {
			fmt.Printf("⚠ Session token: WARNING\n")
			fmt.Printf("   Token is not a decodable JWT: %v\n", err)
			return
		}
		exp, err := parsed.Claims.GetExpirationTime()
		if err != nil || exp == nil {
			fmt.Printf("✓ Session token: OK (no expiry claim)\n")
			return
		}
		if exp.Before(time.Now()) {
			fmt.Printf("⚠ Session token: WARNING\n")
			fmt.Printf("   Token expired at %s, log in again\n", exp.Format(time.RFC3339))
			return
		}
		fmt.Printf("✓ Session token: OK (expires %s)\n", exp.Format(time.RFC3339))
	}
}

func checkAPI(ctx *Context) error {
	client := &http.Client{Timeout: 3 * time.Second}
	resp, err := client.Get(ctx.BaseURL + "/health")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 500 {
		return fmt.Errorf("server returned %s", resp.Status)
	}
	return nil
}

// checkDuplicateProcess warns when another copy of the binary is already
// running, since concurrent writers can clobber the JSON store.
func checkDuplicateProcess() error {
	procs, err := ps.Processes()
	if err != nil {
		return fmt.Errorf("cannot list processes: %w", err)
	}
	self := strings.TrimSuffix(filepath.Base(os.Args[0]), ".exe")
	count := 0
	for _, p := range procs {
		if strings.TrimSuffix(p.Executable(), ".exe") == self {
			count++
		}
	}
	if count > 1 {
		return fmt.Errorf("%d instances of %s are running", count, self)
	}
	return nil
}
