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

const (
	baseURL   = "http://localhost:8000"
	checkUser = "api-check-user"
)

// Pretty print JSON helper
func prettyPrint(body []byte) {
	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		fmt.Println(string(body))
		return
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Println(string(body))
		return
	}
	fmt.Println(string(b))
}

// Request helper
func sendRequest(method, url string, body interface{}) (*http.Response, []byte, error) {
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

	client := &http.Client{} // the first uncached question can take a while
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

func chat(question string, conversationId string) (*http.Response, []byte, error) {
	payload := map[string]interface{}{
		"question": question,
		"user_id":  checkUser,
	}
	if conversationId != "" {
		payload["conversation_id"] = conversationId
	}
	return sendRequest("POST", "/chat", payload)
}

func main() {
	color.Cyan("🚀 Starting Chat API Check\n")

	// 1. Greeting short-circuit
	color.Yellow("\n1. Greeting (no retrieval, no LLM)")
	resp, body, err := chat("hello", "")
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(body)

	// 2. Real question
	color.Yellow("\n2. Grounded question")
	resp, body, err = chat("How do I reset my password?", "")
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(body)

	var chatResp struct {
		ConversationId string `json:"conversation_id"`
	}
	json.Unmarshal(body, &chatResp)
	if chatResp.ConversationId == "" {
		color.Red("No conversation_id in response, aborting")
		os.Exit(1)
	}

	// 3. Same question again, should come from the answer cache
	color.Yellow("\n3. Repeat question (cache hit expected)")
	resp, body, err = chat("How do I reset my password?", chatResp.ConversationId)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(body)

	// 4. Conversation listing
	color.Yellow("\n4. List conversations for %s", checkUser)
	resp, body, err = sendRequest("GET", "/user_conversations/"+checkUser, nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(body)

	// 5. Conversation history
	color.Yellow("\n5. Messages for %s", chatResp.ConversationId)
	resp, body, err = sendRequest("GET", "/conversation/"+chatResp.ConversationId, nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(body)

	// 6. Unknown conversation must answer 404
	color.Yellow("\n6. Unknown conversation id")
	resp, body, err = sendRequest("GET", "/conversation/conv_0_nobody", nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	if resp.StatusCode != http.StatusNotFound {
		color.Red("Expected 404, got %s", resp.Status)
	} else {
		color.Green("Status: %s", resp.Status)
	}
	prettyPrint(body)

	color.Cyan("\n✅ Chat API check finished")
}
