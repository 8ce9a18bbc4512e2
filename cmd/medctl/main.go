// Copyright (c) 2026 Medira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command medctl is the terminal client for the Medira API.
//
// # Usage
//
//	medctl login -email admin@email.com
//	medctl whoami
//	medctl patients list -page 1 -search smith
//	medctl patients get <id>
//	medctl patients create -first John -last Doe -email j@d.com -phone "+1 555" -dob 1985-03-14
//	medctl patients delete <id>
//	medctl logout
//
// The session token is persisted under ~/.medira/session.json and restored
// on every invocation. An expired or missing session degrades silently to
// the logged-out state; commands that need one print a login hint instead
// of a stack trace.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/taibuivan/medira/internal/client"
	"github.com/taibuivan/medira/internal/platform/perm"
	"github.com/taibuivan/medira/pkg/pagination"
)

const defaultServer = "http://localhost:8080"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	session := client.NewSession(client.NewFileTokenStore(client.DefaultTokenPath()))
	session.Restore()

	server := os.Getenv("MEDIRA_SERVER")
	if server == "" {
		server = defaultServer
	}
	api := client.NewAPI(server, session)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var err error
	switch os.Args[1] {
	case "login":
		err = runLogin(ctx, api, os.Args[2:])
	case "logout":
		api.Logout()
		fmt.Println("Logged out.")
	case "whoami":
		err = runWhoami(ctx, api, session)
	case "patients":
		err = runPatients(ctx, api, session, os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		var apiError *client.APIError
		if errors.As(err, &apiError) {
			fmt.Fprintln(os.Stderr, "Error:", apiError.Message)
		} else {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `medctl - Medira terminal client

Commands:
  login     -email <addr>             Authenticate and store a session
  logout                              Clear the stored session
  whoami                              Show the current identity
  patients  list|get|create|update|delete`)
}

// # Commands

func runLogin(ctx context.Context, api *client.API, args []string) error {
	flags := flag.NewFlagSet("login", flag.ExitOnError)
	email := flags.String("email", "", "account email")
	_ = flags.Parse(args)

	if *email == "" {
		fmt.Print("Email: ")
		reader := bufio.NewReader(os.Stdin)
		line, _ := reader.ReadString('\n')
		*email = strings.TrimSpace(line)
	}

	fmt.Print("Password: ")
	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}

	identity, err := api.Login(ctx, *email, string(passwordBytes))
	if err != nil {
		return err
	}

	fmt.Printf("Logged in as %s (%s)\n", identity.Email, identity.Role)
	return nil
}

func runWhoami(ctx context.Context, api *client.API, session *client.Session) error {
	if !session.Current().Authenticated() {
		fmt.Println("Not logged in. Run 'medctl login' first.")
		return nil
	}

	identity, err := api.Profile(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("%s <%s>\nRole: %s\nPermissions:\n", identity.Name, identity.Email, identity.Role)
	for permission := range perm.PermissionsFor(identity.Role) {
		fmt.Printf("  - %s\n", permission)
	}
	return nil
}

// patientView mirrors the server's patient JSON shape.
type patientView struct {
	ID             string    `json:"id"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Email          string    `json:"email"`
	PhoneNumber    string    `json:"phone_number"`
	DateOfBirth    time.Time `json:"date_of_birth"`
	AdditionalInfo string    `json:"additional_information"`
}

func runPatients(ctx context.Context, api *client.API, session *client.Session, args []string) error {
	if len(args) < 1 {
		return errors.New("patients: missing subcommand (list|get|create|update|delete)")
	}

	snapshot := session.Current()
	if !snapshot.Authenticated() {
		fmt.Println("Not logged in. Run 'medctl login' first.")
		return nil
	}

	switch args[0] {
	case "list":
		return patientsList(ctx, api, snapshot, args[1:])
	case "get":
		return patientsGet(ctx, api, args[1:])
	case "create":
		return patientsCreate(ctx, api, snapshot, args[1:])
	case "update":
		return patientsUpdate(ctx, api, snapshot, args[1:])
	case "delete":
		return patientsDelete(ctx, api, snapshot, args[1:])
	default:
		return fmt.Errorf("patients: unknown subcommand %q", args[0])
	}
}

func patientsList(ctx context.Context, api *client.API, snapshot client.Snapshot, args []string) error {
	flags := flag.NewFlagSet("patients list", flag.ExitOnError)
	page := flags.Int("page", 1, "page number")
	limit := flags.Int("limit", 25, "items per page")
	search := flags.String("search", "", "name or email filter")
	_ = flags.Parse(args)

	// Rendering hint only; the server enforces the same table
	if !snapshot.Can(perm.PatientList) {
		fmt.Println("Your role cannot list patients.")
		return nil
	}

	path := fmt.Sprintf("/api/v1/patients?page=%d&limit=%d", *page, *limit)
	if *search != "" {
		path += "&search=" + *search
	}

	// The list endpoint uses the paginated envelope, so decode it raw
	var envelope struct {
		Data []patientView   `json:"data"`
		Meta pagination.Meta `json:"meta"`
	}
	if err := api.GetRaw(ctx, path, &envelope); err != nil {
		return err
	}

	for _, record := range envelope.Data {
		fmt.Printf("%s  %-25s %s\n", record.ID, record.FirstName+" "+record.LastName, record.Email)
	}
	fmt.Printf("Page %d/%d (%d total)\n", envelope.Meta.Page, envelope.Meta.TotalPages, envelope.Meta.Total)
	return nil
}

func patientsGet(ctx context.Context, api *client.API, args []string) error {
	if len(args) < 1 {
		return errors.New("patients get: missing id")
	}

	var record patientView
	if err := api.Get(ctx, "/api/v1/patients/"+args[0], &record); err != nil {
		return err
	}

	return printJSON(record)
}

func patientsCreate(ctx context.Context, api *client.API, snapshot client.Snapshot, args []string) error {
	flags := flag.NewFlagSet("patients create", flag.ExitOnError)
	first := flags.String("first", "", "first name")
	last := flags.String("last", "", "last name")
	email := flags.String("email", "", "email address")
	phone := flags.String("phone", "", "phone number")
	dob := flags.String("dob", "", "date of birth (YYYY-MM-DD)")
	info := flags.String("info", "", "additional information")
	_ = flags.Parse(args)

	if !snapshot.Can(perm.PatientCreate) {
		fmt.Println("Your role cannot create patients.")
		return nil
	}

	payload := map[string]string{
		"first_name":             *first,
		"last_name":              *last,
		"email":                  *email,
		"phone_number":           *phone,
		"date_of_birth":          *dob,
		"additional_information": *info,
	}

	var record patientView
	if err := api.Post(ctx, "/api/v1/patients", payload, &record); err != nil {
		return err
	}

	fmt.Println("Created patient", record.ID)
	return nil
}

func patientsUpdate(ctx context.Context, api *client.API, snapshot client.Snapshot, args []string) error {
	if len(args) < 1 {
		return errors.New("patients update: missing id")
	}
	id := args[0]

	flags := flag.NewFlagSet("patients update", flag.ExitOnError)
	first := flags.String("first", "", "first name")
	last := flags.String("last", "", "last name")
	email := flags.String("email", "", "email address")
	phone := flags.String("phone", "", "phone number")
	dob := flags.String("dob", "", "date of birth (YYYY-MM-DD)")
	info := flags.String("info", "", "additional information")
	_ = flags.Parse(args[1:])

	if !snapshot.Can(perm.PatientUpdate) {
		fmt.Println("Your role cannot update patients.")
		return nil
	}

	// Only flags the user actually set become part of the patch
	payload := map[string]string{}
	flags.Visit(func(setFlag *flag.Flag) {
		switch setFlag.Name {
		case "first":
			payload["first_name"] = *first
		case "last":
			payload["last_name"] = *last
		case "email":
			payload["email"] = *email
		case "phone":
			payload["phone_number"] = *phone
		case "dob":
			payload["date_of_birth"] = *dob
		case "info":
			payload["additional_information"] = *info
		}
	})

	if len(payload) == 0 {
		return errors.New("patients update: no fields to change")
	}

	var record patientView
	if err := api.Patch(ctx, "/api/v1/patients/"+id, payload, &record); err != nil {
		return err
	}

	fmt.Println("Updated patient", record.ID)
	return nil
}

func patientsDelete(ctx context.Context, api *client.API, snapshot client.Snapshot, args []string) error {
	if len(args) < 1 {
		return errors.New("patients delete: missing id")
	}

	if !snapshot.Can(perm.PatientDelete) {
		fmt.Println("Your role cannot delete patients.")
		return nil
	}

	if err := api.Delete(ctx, "/api/v1/patients/"+args[0]); err != nil {
		return err
	}

	fmt.Println("Deleted patient", args[0])
	return nil
}

func printJSON(value interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}
