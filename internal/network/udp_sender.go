package network

import (
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"dosinput/internal/emulator"
	"dosinput/internal/protocol"
)

// DefaultRedundancy is how many times critical packets are sent when not configured
const DefaultRedundancy = 3

// UDPSender streams emulated events as binary packets to every registered emulation
// runtime. It implements emulator.Sink.
type UDPSender struct {
	conn       *net.UDPConn
	port       int
	redundancy int
	logger     *zap.Logger

	runtimes   map[string]*udpRuntime
	runtimesMu sync.RWMutex
	seq        uint32 // atomic, monotonically increasing
	done       chan struct{}
}

type udpRuntime struct {
	addr     *net.UDPAddr
	lastSeen time.Time
}

// NewUDPSender creates a sender that will listen on port for runtime registrations.
// Port 0 picks a free port. redundancy <= 0 uses DefaultRedundancy.
func NewUDPSender(port, redundancy int, logger *zap.Logger) *UDPSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	if redundancy <= 0 {
		redundancy = DefaultRedundancy
	}
	return &UDPSender{
		port:       port,
		redundancy: redundancy,
		logger:     logger.Named("udp-sender"),
		runtimes:   make(map[string]*udpRuntime),
		done:       make(chan struct{}),
	}
}

// Start binds the UDP socket and begins listening for runtime registrations.
func (s *UDPSender) Start() error {
	conn, err := net.ListenUDP("udp", &net.UDPAddr{Port: s.port})
	if err != nil {
		return fmt.Errorf("listen udp :%d: %w", s.port, err)
	}
	s.conn = conn

	// 1 MB write buffer for burst writes
	conn.SetWriteBuffer(1 << 20)
	// 64 KB read buffer for register/heartbeat
	conn.SetReadBuffer(1 << 16)

	s.logger.Info("listening", zap.Stringer("addr", conn.LocalAddr()))

	go s.readLoop()
	go s.cleanupLoop()

	return nil
}

// Addr returns the bound address, or nil before Start
func (s *UDPSender) Addr() *net.UDPAddr {
	if s.conn == nil {
		return nil
	}
	return s.conn.LocalAddr().(*net.UDPAddr)
}

// readLoop listens for register and heartbeat packets from runtimes.
func (s *UDPSender) readLoop() {
	buf := make([]byte, 64)
	for {
		n, remoteAddr, err := s.conn.ReadFromUDP(buf)
		if err != nil {
			select {
			case <-s.done:
				return
			default:
				continue
			}
		}

		pkt, err := protocol.DecodeUDPPacket(buf[:n])
		if err != nil {
			s.logger.Debug("dropping packet", zap.Stringer("from", remoteAddr), zap.Error(err))
			continue
		}

		switch pkt.Type {
		case protocol.UDPPacketRegister:
			s.touch(remoteAddr, "register")

			// Reply with Ack so the runtime can confirm UDP connectivity
			ack := &protocol.UDPPacket{
				Type:      protocol.UDPPacketAck,
				Timestamp: time.Now().UnixMilli(),
			}
			s.conn.WriteToUDP(protocol.EncodeUDPPacket(ack), remoteAddr)

		case protocol.UDPPacketHeartbeat:
			s.touch(remoteAddr, "heartbeat")
		}
	}
}

func (s *UDPSender) touch(addr *net.UDPAddr, via string) {
	key := addr.String()
	s.runtimesMu.Lock()
	defer s.runtimesMu.Unlock()
	if _, exists := s.runtimes[key]; !exists {
		s.logger.Info("runtime registered", zap.String("addr", key), zap.String("via", via))
	}
	s.runtimes[key] = &udpRuntime{addr: addr, lastSeen: time.Now()}
}

// cleanupLoop removes runtimes that haven't sent a heartbeat recently.
func (s *UDPSender) cleanupLoop() {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.runtimesMu.Lock()
			for key, rt := range s.runtimes {
				if time.Since(rt.lastSeen) > 30*time.Second {
					s.logger.Info("removing stale runtime", zap.String("addr", key))
					delete(s.runtimes, key)
				}
			}
			s.runtimesMu.Unlock()
		case <-s.done:
			return
		}
	}
}

// Deliver encodes an emulated event and sends it to all registered runtimes.
// Critical events are sent several times since UDP has no delivery guarantee;
// the receiver drops the copies by sequence number.
func (s *UDPSender) Deliver(ev emulator.Event) {
	var pkt *protocol.UDPPacket
	switch ev.Kind {
	case emulator.KindKey:
		pkt = protocol.KeyPacket(ev.Key)
	case emulator.KindMouseButton:
		var err error
		if pkt, err = protocol.MouseButtonPacket(ev.Button); err != nil {
			s.logger.Warn("dropping mouse button", zap.Error(err))
			return
		}
	case emulator.KindMouseMotion:
		pkt = protocol.MouseMotionPacket(ev.Motion)
	case emulator.KindReleaseAll:
		pkt = &protocol.UDPPacket{Type: protocol.UDPPacketReleaseAll}
	default:
		return
	}
	pkt.Seq = atomic.AddUint32(&s.seq, 1)
	pkt.Timestamp = time.Now().UnixMilli()

	redundancy := 1
	if pkt.Critical() {
		redundancy = s.redundancy
	}
	s.broadcast(protocol.EncodeUDPPacket(pkt), redundancy)
}

// broadcast sends data to all registered runtimes.
func (s *UDPSender) broadcast(data []byte, redundancy int) {
	if s.conn == nil {
		return
	}
	s.runtimesMu.RLock()
	defer s.runtimesMu.RUnlock()

	for _, rt := range s.runtimes {
		for i := 0; i < redundancy; i++ {
			s.conn.WriteToUDP(data, rt.addr)
		}
	}
}

// HasRuntimes returns true if at least one runtime is registered.
func (s *UDPSender) HasRuntimes() bool {
	s.runtimesMu.RLock()
	defer s.runtimesMu.RUnlock()
	return len(s.runtimes) > 0
}

// Stop shuts down the UDP sender.
func (s *UDPSender) Stop() {
	close(s.done)
	if s.conn != nil {
		s.conn.Close()
	}
}
