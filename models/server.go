package models

import (
	"strings"

	"github.com/google/uuid"
)

// Role is the acting party for a request. Switching roles is unauthenticated.
type Role string

const (
	RoleGuest  Role = "guest"
	RoleServer Role = "server"
	RoleAdmin  Role = "admin"
)

// Server is a member of floor staff. A server is available when it is not
// assigned to any table.
type Server struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Available bool      `json:"available"`
}

func NewServer(name string) *Server {
	return &Server{ID: uuid.New(), Name: name, Available: true}
}

// ServerRegistry keeps servers in insertion order.
type ServerRegistry struct {
	servers []*Server
}

func NewServerRegistry() *ServerRegistry {
	return &ServerRegistry{}
}

func (r *ServerRegistry) Add(s *Server) {
	r.servers = append(r.servers, s)
}

func (r *ServerRegistry) List() []*Server {
	out := make([]*Server, len(r.servers))
	copy(out, r.servers)
	return out
}

// FindByName matches names case-insensitively. When several servers share a
// name the first one added wins.
func (r *ServerRegistry) FindByName(name string) (*Server, bool) {
	for _, s := range r.servers {
		if strings.EqualFold(s.Name, name) {
			return s, true
		}
	}
	return nil, false
}

func (r *ServerRegistry) Get(id uuid.UUID) (*Server, bool) {
	for _, s := range r.servers {
		if s.ID == id {
			return s, true
		}
	}
	return nil, false
}
