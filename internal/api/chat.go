package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Mentor is an AI mentor the user can chat with.
type Mentor struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Subject     string `json:"subject,omitempty"`
	Description string `json:"description,omitempty"`
}

// ChatMessage is one prompt/response exchange with a mentor.
type ChatMessage struct {
	ID        string    `json:"id"`
	Prompt    string    `json:"prompt"`
	Response  string    `json:"response"`
	CreatedAt time.Time `json:"created_at"`
}

// ChatReply is the mentor's answer to one prompt. PlanID and PlanStatus
// are set when the mentor attached a learning plan proposal; PlanStatus
// may be empty, in which case the proposal defaults to active.
type ChatReply struct {
	Mentor     string `json:"mentor"`
	Response   string `json:"response"`
	PlanID     string `json:"plan_id,omitempty"`
	PlanStatus string `json:"plan_status,omitempty"`
}

// sendRequest is the body for the chat send endpoint.
type sendRequest struct {
	Prompt   string `json:"prompt"`
	MentorID string `json:"mentor_id"`
}

// ListMentors fetches all available mentors.
func (c *Client) ListMentors(ctx context.Context) ([]Mentor, error) {
	var mentors []Mentor
	if err := c.getJSON(ctx, "/mentors", &mentors); err != nil {
		return nil, fmt.Errorf("list mentors: %w", err)
	}
	return mentors, nil
}

// ChattedMentors fetches the mentors the user has talked to before.
func (c *Client) ChattedMentors(ctx context.Context) ([]Mentor, error) {
	var mentors []Mentor
	if err := c.getJSON(ctx, "/chat/history", &mentors); err != nil {
		return nil, fmt.Errorf("list chatted mentors: %w", err)
	}
	return mentors, nil
}

// SendMessage sends a prompt to a mentor and returns the reply.
func (c *Client) SendMessage(ctx context.Context, mentorID, prompt string) (*ChatReply, error) {
	req := sendRequest{Prompt: prompt, MentorID: mentorID}
	var reply ChatReply
	if err := c.postJSON(ctx, http.MethodPost, "/chat/send", req, &reply); err != nil {
		return nil, fmt.Errorf("send message: %w", err)
	}
	return &reply, nil
}

// History fetches the conversation with one mentor, oldest first.
func (c *Client) History(ctx context.Context, mentorID string, limit, offset int) ([]ChatMessage, error) {
	path := "/chat/history/" + url.PathEscape(mentorID)
	if limit > 0 || offset > 0 {
		q := url.Values{}
		if limit > 0 {
			q.Set("limit", strconv.Itoa(limit))
		}
		if offset > 0 {
			q.Set("offset", strconv.Itoa(offset))
		}
		path += "?" + q.Encode()
	}

	var messages []ChatMessage
	if err := c.getJSON(ctx, path, &messages); err != nil {
		return nil, fmt.Errorf("chat history: %w", err)
	}
	return messages, nil
}
