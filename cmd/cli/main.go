// Command cli is a small client for the FreeHold API, mainly for manual
// testing against a running server.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"text/tabwriter"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "auth":
		handleAuth(args)
	case "tenant":
		handleTenant(args)
	case "property":
		handleProperty(args)
	case "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Usage: freehold <command> [args]

Commands:
  auth <login|logout|who>
  tenant <list|add|remove>
  property <list|add>

The login credential is the identity-provider token; it is stored in
~/.freehold/token and sent as a bearer header on subsequent calls.
FREEHOLD_API overrides the server URL (default http://localhost:8080).`)
}

func handleAuth(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: freehold auth <login|logout|who>")
		return
	}

	switch args[0] {
	case "login":
		loginUser(args[1:])
	case "logout":
		logoutUser()
	case "who":
		whoAmI()
	default:
		fmt.Printf("unknown auth command: %s\n", args[0])
	}
}

func handleTenant(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: freehold tenant <list|add|remove>")
		return
	}

	switch args[0] {
	case "list":
		listTenants()
	case "add":
		addTenant(args[1:])
	case "remove":
		removeTenant(args[1:])
	default:
		fmt.Printf("unknown tenant command: %s\n", args[0])
	}
}

func handleProperty(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: freehold property <list|add>")
		return
	}

	switch args[0] {
	case "list":
		listProperties()
	case "add":
		addProperty(args[1:])
	default:
		fmt.Printf("unknown property command: %s\n", args[0])
	}
}

// Auth commands
func loginUser(args []string) {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "user email")
	token := fs.String("token", "", "identity-provider credential")

	fs.Parse(args)

	if *email == "" || *token == "" {
		fmt.Println("Error: email and token are required")
		fs.PrintDefaults()
		return
	}

	payload := map[string]string{"email": *email, "token": *token}
	data, _ := json.Marshal(payload)
	resp, err := http.Post(getAPIURL()+"/login", "application/json", bytes.NewReader(data))
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer resp.Body.Close()

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	if resp.StatusCode == 200 {
		saveToken(*token)
		fmt.Printf("Logged in as: %s (%v)\n", *email, result["type"])
	} else {
		fmt.Printf("Login failed: %v\n", result)
	}
}

func logoutUser() {
	os.Remove(tokenFile())
	fmt.Println("Logged out")
}

func whoAmI() {
	token := loadToken()
	if token == "" {
		fmt.Println("Not logged in")
		return
	}
	n := len(token)
	if n > 20 {
		n = 20
	}
	fmt.Printf("Logged in (token: %s...)\n", token[:n])
}

// Tenant commands
func listTenants() {
	req, _ := http.NewRequest("GET", getAPIURL()+"/api/tenants", nil)
	addAuthHeader(req)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		printAPIError(resp)
		return
	}

	var tenants []map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&tenants)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tRESIDENCE")
	for _, t := range tenants {
		fmt.Fprintf(w, "%v\t%v %v\t%v\t%v\n", t["id"], t["firstName"], t["lastName"], t["email"], t["residenceId"])
	}
	w.Flush()
}

func addTenant(args []string) {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	first := fs.String("first", "", "first name")
	last := fs.String("last", "", "last name")
	email := fs.String("email", "", "tenant email")
	residence := fs.Int64("residence", 0, "property id")

	fs.Parse(args)

	if *email == "" || *residence == 0 {
		fmt.Println("Error: email and residence are required")
		fs.PrintDefaults()
		return
	}

	payload := map[string]interface{}{
		"firstName":   *first,
		"lastName":    *last,
		"email":       *email,
		"residenceId": *residence,
	}
	data, _ := json.Marshal(payload)
	req, _ := http.NewRequest("POST", getAPIURL()+"/api/tenants", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	addAuthHeader(req)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != 201 {
		printAPIError(resp)
		return
	}

	var tenant map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&tenant)
	fmt.Printf("Tenant created: id=%v residence=%v\n", tenant["id"], tenant["residenceId"])
}

func removeTenant(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: freehold tenant remove <tenant-id>")
		return
	}

	req, _ := http.NewRequest("DELETE", getAPIURL()+"/api/tenants/"+args[0], nil)
	addAuthHeader(req)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != 204 {
		printAPIError(resp)
		return
	}
	fmt.Println("Tenant removed")
}

// Property commands
func listProperties() {
	req, _ := http.NewRequest("GET", getAPIURL()+"/api/properties", nil)
	addAuthHeader(req)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		printAPIError(resp)
		return
	}

	var properties []map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&properties)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tADDRESS\tSTATUS")
	for _, p := range properties {
		fmt.Fprintf(w, "%v\t%v\t%v, %v\t%v\n", p["id"], p["name"], p["street"], p["city"], p["status"])
	}
	w.Flush()
}

func addProperty(args []string) {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	name := fs.String("name", "", "property name")
	street := fs.String("street", "", "street address")
	city := fs.String("city", "", "city")
	state := fs.String("state", "", "state")
	zip := fs.String("zip", "", "zip code")

	fs.Parse(args)

	if *street == "" || *city == "" {
		fmt.Println("Error: street and city are required")
		fs.PrintDefaults()
		return
	}

	payload := map[string]string{
		"name":   *name,
		"street": *street,
		"city":   *city,
		"state":  *state,
		"zip":    *zip,
	}
	data, _ := json.Marshal(payload)
	req, _ := http.NewRequest("POST", getAPIURL()+"/api/properties", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	addAuthHeader(req)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != 201 {
		printAPIError(resp)
		return
	}

	var property map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&property)
	fmt.Printf("Property created: id=%v status=%v\n", property["id"], property["status"])
}

// Helper functions
func getAPIURL() string {
	if url := os.Getenv("FREEHOLD_API"); url != "" {
		return url
	}
	return "http://localhost:8080"
}

func tokenFile() string {
	home, _ := os.UserHomeDir()
	return home + "/.freehold/token"
}

func saveToken(token string) error {
	home, _ := os.UserHomeDir()
	os.MkdirAll(home+"/.freehold", 0700)
	return os.WriteFile(tokenFile(), []byte(token), 0600)
}

func loadToken() string {
	data, _ := os.ReadFile(tokenFile())
	return string(data)
}

func addAuthHeader(req *http.Request) {
	if token := loadToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func printAPIError(resp *http.Response) {
	var body map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&body)
	fmt.Printf("Request failed (%d): %v\n", resp.StatusCode, body)
}
