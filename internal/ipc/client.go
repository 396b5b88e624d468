package ipc

import (
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"time"
)

const serviceName = "NRIAssist"

// Client provides RPC access to the daemon.
type Client struct {
	conn   net.Conn
	client *rpc.Client
}

// Dial connects to the IPC server at the given socket path.
func Dial(path string) (*Client, error) {
	conn, err := net.DialTimeout("unix", path, 2*time.Second)
	if err != nil {
		return nil, err
	}
	rpcClient := rpc.NewClientWithCodec(jsonrpc.NewClientCodec(conn))
	return &Client{conn: conn, client: rpcClient}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	if c.client != nil {
		_ = c.client.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

func call[Resp any](c *Client, method string, req any) (*Resp, error) {
	var resp Resp
	if err := c.client.Call(serviceName+"."+method, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Status retrieves the daemon status.
func (c *Client) Status() (*StatusResponse, error) {
	return call[StatusResponse](c, "Status", StatusRequest{})
}

// ApplicationList returns applications optionally filtered by statuses.
func (c *Client) ApplicationList(statuses []string) (*ApplicationListResponse, error) {
	return call[ApplicationListResponse](c, "ApplicationList", ApplicationListRequest{Statuses: statuses})
}

// ApplicationDescribe returns details for a single application.
func (c *Client) ApplicationDescribe(id string) (*ApplicationDescribeResponse, error) {
	return call[ApplicationDescribeResponse](c, "ApplicationDescribe", ApplicationDescribeRequest{ID: id})
}

// Inbox returns the role's dashboard.
func (c *Client) Inbox(role string) (*InboxResponse, error) {
	return call[InboxResponse](c, "Inbox", RoleRequest{Role: role})
}

// Statistics returns the role's dashboard counters.
func (c *Client) Statistics(role string) (*StatisticsResponse, error) {
	return call[StatisticsResponse](c, "Statistics", RoleRequest{Role: role})
}

// Transition advances an application on behalf of role.
func (c *Client) Transition(id, role string) (*TransitionResponse, error) {
	return call[TransitionResponse](c, "Transition", TransitionRequest{ID: id, Role: role})
}

// Catalog returns the stage table.
func (c *Client) Catalog() (*CatalogResponse, error) {
	return call[CatalogResponse](c, "Catalog", CatalogRequest{})
}

// Roles returns the role selector entries.
func (c *Client) Roles() (*RolesResponse, error) {
	return call[RolesResponse](c, "Roles", RolesRequest{})
}

// Search ranks the daemon's guide script against query.
func (c *Client) Search(req SearchRequest) (*SearchResponse, error) {
	return call[SearchResponse](c, "Search", req)
}
