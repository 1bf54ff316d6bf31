/*
 * Copyright 2025 The KUWIN AP Backend Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package snmp wraps the protocol transport. A session is opened per
// (controller, credential) and must be closed exactly once by the
// caller on every control-flow exit path.
package snmp

//go:generate mockgen -destination=mock_session.go -package=snmp github.com/ffamee/kuwin-ap-backend-sub000/pkg/snmp Session,Opener

import (
	"fmt"
	"time"

	"github.com/gosnmp/gosnmp"

	"github.com/ffamee/kuwin-ap-backend-sub000/pkg/models"
)

const (
	defaultPort    = 161
	defaultTimeout = 5 * time.Second
	defaultRetries = 1
)

// Session is one open protocol conversation with a controller.
type Session interface {
	Get(oids []string) (*gosnmp.SnmpPacket, error)
	GetBulk(oids []string, nonRepeaters uint8, maxRepetitions uint32) (*gosnmp.SnmpPacket, error)
	Close() error
}

// Opener dials sessions; walk workers depend on this rather than on
// the concrete client so tests can substitute a transport.
type Opener interface {
	Open(controller models.Controller) (Session, error)
}

// ClientOpener opens real SNMP v2c sessions with gosnmp.
type ClientOpener struct {
	Timeout time.Duration
}

type session struct {
	conn *gosnmp.GoSNMP
}

// Open dials the controller and returns a connected session.
func (o *ClientOpener) Open(controller models.Controller) (Session, error) {
	timeout := o.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	port := controller.Port
	if port == 0 {
		port = defaultPort
	}

	conn := &gosnmp.GoSNMP{
		Target:    controller.Host,
		Port:      port,
		Community: controller.Community,
		Version:   gosnmp.Version2c,
		Timeout:   timeout,
		Retries:   defaultRetries,
	}

	if err := conn.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to controller %s (%s): %w", controller.Name, controller.Host, err)
	}

	return &session{conn: conn}, nil
}

func (s *session) Get(oids []string) (*gosnmp.SnmpPacket, error) {
	return s.conn.Get(oids)
}

func (s *session) GetBulk(oids []string, nonRepeaters uint8, maxRepetitions uint32) (*gosnmp.SnmpPacket, error) {
	return s.conn.GetBulk(oids, nonRepeaters, maxRepetitions)
}

func (s *session) Close() error {
	return s.conn.Conn.Close()
}
