package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/fatih/color"
)

const baseURL = "http://localhost:3000/api"

// Pretty print JSON helper
func prettyPrint(v interface{}) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%v\n", v)
		return
	}
	fmt.Println(string(b))
}

// Request helper
func sendRequest(method, url, token string, body interface{}) (*http.Response, []byte, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, baseURL+url, bodyReader)
	if err != nil {
		return nil, nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{} // No timeout, synthesis can be slow
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

func main() {
	userToken := os.Getenv("TEST_USER_TOKEN")
	if userToken == "" {
		color.Red("TEST_USER_TOKEN env var is required")
		os.Exit(1)
	}

	color.Cyan("🚀 Starting Assistant Retrieval API Test\n")

	// 1. Create Session
	color.Yellow("\n[USER] 1. Create Session")
	resp, body, err := sendRequest("POST", "/assistant/v1/session", userToken, nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var createResp map[string]interface{}
	json.Unmarshal(body, &createResp)
	prettyPrint(createResp)

	var sessionID string
	if data, ok := createResp["data"].(map[string]interface{}); ok {
		if id, ok := data["id"].(string); ok {
			sessionID = id
			fmt.Printf("Created Session ID: %s\n", sessionID)
		}
	}
	if sessionID == "" {
		color.Red("Aborting: no session ID returned")
		os.Exit(1)
	}

	// 2. Submit first text query (expansion + search + synthesis)
	color.Yellow("\n[USER] 2. Submit Text Query (full pipeline)")
	queryReq := map[string]interface{}{
		"query": "history of the transistor",
		"mode":  "text",
	}
	resp, body, err = sendRequest("POST", "/assistant/v1/session/"+sessionID+"/query", userToken, queryReq)
	if err != nil {
		color.Red("Failed: %v", err)
	} else {
		color.Green("Status: %s", resp.Status)
		var queryResp map[string]interface{}
		json.Unmarshal(body, &queryResp)
		// Concise printing to avoid huge source dump
		if data, ok := queryResp["data"].(map[string]interface{}); ok {
			fmt.Printf("Answer: %s\n", data["answer"])
			if sources, ok := data["sources"].([]interface{}); ok {
				fmt.Printf("Sources: %d\n", len(sources))
			}
		} else {
			prettyPrint(queryResp)
		}
	}

	// 3. Load more sources (literal search, no synthesis)
	color.Yellow("\n[USER] 3. Load More Sources")
	moreReq := map[string]interface{}{"mode": "text"}
	resp, body, err = sendRequest("POST", "/assistant/v1/session/"+sessionID+"/more", userToken, moreReq)
	if err != nil {
		color.Red("Failed: %v", err)
	} else {
		color.Green("Status: %s", resp.Status)
		var moreResp map[string]interface{}
		json.Unmarshal(body, &moreResp)
		if data, ok := moreResp["data"].(map[string]interface{}); ok {
			if sources, ok := data["sources"].([]interface{}); ok {
				fmt.Printf("New sources: %d\n", len(sources))
			}
		} else {
			prettyPrint(moreResp)
		}
	}

	// 4. Submit image query (pure retrieval)
	color.Yellow("\n[USER] 4. Submit Image Query")
	imageReq := map[string]interface{}{
		"query": "first point-contact transistor",
		"mode":  "image",
	}
	resp, body, err = sendRequest("POST", "/assistant/v1/session/"+sessionID+"/query", userToken, imageReq)
	if err != nil {
		color.Red("Failed: %v", err)
	} else {
		color.Green("Status: %s", resp.Status)
		var imageResp map[string]interface{}
		json.Unmarshal(body, &imageResp)
		if data, ok := imageResp["data"].(map[string]interface{}); ok {
			if images, ok := data["images"].([]interface{}); ok {
				fmt.Printf("Images: %d\n", len(images))
			}
		} else {
			prettyPrint(imageResp)
		}
	}

	// 5. Show session history
	color.Yellow("\n[USER] 5. Show Session History")
	resp, body, err = sendRequest("GET", "/assistant/v1/session/"+sessionID+"/history", userToken, nil)
	if err != nil {
		color.Red("Failed: %v", err)
	} else {
		color.Green("Status: %s", resp.Status)
		var historyResp map[string]interface{}
		json.Unmarshal(body, &historyResp)
		prettyPrint(historyResp)
	}

	// 6. Cleanup: delete the session
	color.Yellow("\n[USER] 6. Cleanup: Delete Session")
	resp, body, err = sendRequest("DELETE", "/assistant/v1/session/"+sessionID, userToken, nil)
	if err != nil {
		color.Red("Failed: %v", err)
	} else {
		color.Green("Status: %s", resp.Status)
		var deleteResp map[string]interface{}
		json.Unmarshal(body, &deleteResp)
		prettyPrint(deleteResp)
	}

	color.Cyan("\n🏁 Test Flow Finished")
}
