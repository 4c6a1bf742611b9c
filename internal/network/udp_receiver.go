package network

import (
	"fmt"
	"net"
	"time"

	"go.uber.org/zap"

	"dosinput/internal/input"
	"dosinput/internal/protocol"
)

// UDPReceiver is the runtime side of the link. It registers with a UDPSender and
// applies the events it receives to an emulation target.
type UDPReceiver struct {
	senderAddr string // sender address in "ip:port" format
	target     input.Emulator
	logger     *zap.Logger
	conn       *net.UDPConn
	done       chan struct{}

	// dedup ring buffer for redundant packets
	dedup seqDedup
}

// seqDedup tracks recently seen sequence numbers to discard redundant packets.
// Uses a fixed-size ring buffer, O(1) lookup.
type seqDedup struct {
	ring [512]uint32
	pos  int
	seen map[uint32]struct{}
}

func newSeqDedup() seqDedup {
	return seqDedup{seen: make(map[uint32]struct{}, 512)}
}

func (d *seqDedup) isDuplicate(seq uint32) bool {
	if _, ok := d.seen[seq]; ok {
		return true
	}
	// Evict oldest entry
	old := d.ring[d.pos]
	if old != 0 {
		delete(d.seen, old)
	}
	d.ring[d.pos] = seq
	d.seen[seq] = struct{}{}
	d.pos = (d.pos + 1) % len(d.ring)
	return false
}

// NewUDPReceiver creates a receiver applying events to target.
// senderAddr should be "ip:port" of the sender.
func NewUDPReceiver(senderAddr string, target input.Emulator, logger *zap.Logger) *UDPReceiver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UDPReceiver{
		senderAddr: senderAddr,
		target:     target,
		logger:     logger.Named("udp-receiver"),
		done:       make(chan struct{}),
		dedup:      newSeqDedup(),
	}
}

// Probe tests whether UDP connectivity to the sender is available.
// It sends register packets and waits for an Ack response.
func (r *UDPReceiver) Probe() bool {
	senderUDP, err := net.ResolveUDPAddr("udp", r.senderAddr)
	if err != nil {
		r.logger.Warn("probe: failed to resolve sender", zap.Error(err))
		return false
	}

	conn, err := net.ListenUDP("udp", &net.UDPAddr{Port: 0})
	if err != nil {
		r.logger.Warn("probe: failed to bind", zap.Error(err))
		return false
	}
	defer conn.Close()

	// Try up to 3 times with 500ms timeout each
	buf := make([]byte, 64)
	for attempt := 1; attempt <= 3; attempt++ {
		pkt := &protocol.UDPPacket{
			Type:      protocol.UDPPacketRegister,
			Timestamp: time.Now().UnixMilli(),
		}
		conn.WriteToUDP(protocol.EncodeUDPPacket(pkt), senderUDP)

		conn.SetReadDeadline(time.Now().Add(500 * time.Millisecond))
		n, _, err := conn.ReadFromUDP(buf)
		if err != nil {
			continue
		}
		resp, err := protocol.DecodeUDPPacket(buf[:n])
		if err != nil {
			continue
		}
		if resp.Type == protocol.UDPPacketAck {
			r.logger.Info("probe: sender replied", zap.Int("attempt", attempt))
			return true
		}
	}

	r.logger.Warn("probe: no ack after 3 attempts, UDP path blocked")
	return false
}

// Start opens a UDP socket, registers with the sender, and begins receiving.
func (r *UDPReceiver) Start() error {
	senderUDP, err := net.ResolveUDPAddr("udp", r.senderAddr)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", r.senderAddr, err)
	}

	conn, err := net.ListenUDP("udp", &net.UDPAddr{Port: 0})
	if err != nil {
		return fmt.Errorf("listen udp: %w", err)
	}
	r.conn = conn

	// Large read buffer for burst receives
	conn.SetReadBuffer(1 << 20)

	r.logger.Info("listening", zap.Stringer("addr", conn.LocalAddr()), zap.String("sender", r.senderAddr))

	r.sendControl(protocol.UDPPacketRegister, senderUDP)

	go r.heartbeatLoop(senderUDP)
	go r.readLoop()

	return nil
}

// heartbeatLoop sends periodic heartbeat packets to keep the registration alive.
func (r *UDPReceiver) heartbeatLoop(addr *net.UDPAddr) {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			r.sendControl(protocol.UDPPacketHeartbeat, addr)
		case <-r.done:
			return
		}
	}
}

// sendControl sends a register or heartbeat packet (header-only, no payload).
func (r *UDPReceiver) sendControl(pktType uint8, addr *net.UDPAddr) {
	pkt := &protocol.UDPPacket{
		Type:      pktType,
		Timestamp: time.Now().UnixMilli(),
	}
	r.conn.WriteToUDP(protocol.EncodeUDPPacket(pkt), addr)
}

// readLoop reads and applies incoming event packets.
func (r *UDPReceiver) readLoop() {
	buf := make([]byte, 64)
	for {
		n, _, err := r.conn.ReadFromUDP(buf)
		if err != nil {
			select {
			case <-r.done:
				return
			default:
				continue
			}
		}

		pkt, err := protocol.DecodeUDPPacket(buf[:n])
		if err != nil {
			r.logger.Debug("dropping packet", zap.Error(err))
			continue
		}

		switch pkt.Type {
		case protocol.UDPPacketAck, protocol.UDPPacketRegister, protocol.UDPPacketHeartbeat:
			continue
		}

		// Deduplicate redundant packets (same seq number)
		if r.dedup.isDuplicate(pkt.Seq) {
			continue
		}

		pkt.Apply(r.target)
	}
}

// Stop shuts down the UDP receiver.
func (r *UDPReceiver) Stop() {
	close(r.done)
	if r.conn != nil {
		r.conn.Close()
	}
}
