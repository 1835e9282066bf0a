// Package client is a minimal line-framed TCP client for the relay,
// used by the end-to-end tests and handy for manual poking.
package client

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"strings"
	"time"

	"chat-relay/protocol"
)

type Client struct {
	conn   net.Conn
	reader *bufio.Reader
}

func Dial(address string) (*Client, error) {
	conn, err := net.Dial("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", address, err)
	}
	return &Client{conn: conn, reader: bufio.NewReader(conn)}, nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}

// Auth sends the mandatory first frame.
func (c *Client) Auth(userID int64) error {
	return c.send(map[string]any{"type": protocol.TypeAuth, "userId": userID})
}

func (c *Client) SendChat(senderID, receiverID int64, content string) error {
	return c.send(map[string]any{
		"type":        protocol.TypeChat,
		"sender_id":   senderID,
		"receiver_id": receiverID,
		"content":     content,
	})
}

func (c *Client) SendReadAck(messageID int64) error {
	return c.send(map[string]any{"type": protocol.TypeReadAck, "message_id": messageID})
}

func (c *Client) SendUpdate(messageID int64, content string) error {
	return c.send(map[string]any{
		"type":       protocol.TypeUpdate,
		"message_id": messageID,
		"content":    content,
	})
}

// SendRaw writes an arbitrary line, for exercising malformed input.
func (c *Client) SendRaw(line string) error {
	_, err := fmt.Fprintf(c.conn, "%s\n", line)
	return err
}

// ReadLine returns the next frame line within the timeout.
func (c *Client) ReadLine(timeout time.Duration) (string, error) {
	if err := c.conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return "", err
	}
	line, err := c.reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\n"), nil
}

// ReadNotification decodes the next line as an inbound-message notification.
func (c *Client) ReadNotification(timeout time.Duration) (protocol.MessageNotification, error) {
	line, err := c.ReadLine(timeout)
	if err != nil {
		return protocol.MessageNotification{}, err
	}
	var notification protocol.MessageNotification
	if err = json.Unmarshal([]byte(line), &notification); err != nil {
		return protocol.MessageNotification{}, fmt.Errorf("decode %q: %w", line, err)
	}
	return notification, nil
}

// ReadUpdateAck decodes the next line as an update acknowledgment.
func (c *Client) ReadUpdateAck(timeout time.Duration) (protocol.UpdateAck, error) {
	line, err := c.ReadLine(timeout)
	if err != nil {
		return protocol.UpdateAck{}, err
	}
	var ack protocol.UpdateAck
	if err = json.Unmarshal([]byte(line), &ack); err != nil {
		return protocol.UpdateAck{}, fmt.Errorf("decode %q: %w", line, err)
	}
	return ack, nil
}

func (c *Client) send(frame map[string]any) error {
	data, err := json.Marshal(frame)
	if err != nil {
		return err
	}
	_, err = c.conn.Write(append(data, '\n'))
	return err
}
