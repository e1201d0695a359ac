package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTextField(t *testing.T, s string) TextField {
	t.Helper()
	tf, err := NewTextField(s)
	require.NoError(t, err)
	return tf
}

func TestArgumentEncodedLength(t *testing.T) {
	name := mustTextField(t, "service")
	value := mustTextField(t, "test")

	required, err := NewArgument(name, value, true)
	require.NoError(t, err)
	assert.Equal(t, len("service")+1+len("test"), required.EncodedLength())

	out := make([]byte, required.EncodedLength())
	required.serialize(out)
	assert.Equal(t, byte('='), out[name.Len()])

	optional, err := NewArgument(name, value, false)
	require.NoError(t, err)
	out = make([]byte, optional.EncodedLength())
	optional.serialize(out)
	assert.Equal(t, byte('*'), out[name.Len()])
}

func TestArgumentListEncodingExample(t *testing.T) {
	a1, err := NewArgument(mustTextField(t, "service"), mustTextField(t, "test"), true)
	require.NoError(t, err)
	a2, err := NewArgument(mustTextField(t, "random-argument"), EmptyTextField, true)
	require.NoError(t, err)

	list, err := NewArgumentList([]Argument{a1, a2})
	require.NoError(t, err)

	out := make([]byte, list.WireSize())
	require.NoError(t, list.serializeCountAndLengthsThenValues(out))

	assert.Equal(t, byte(2), out[0])
	assert.Equal(t, []byte{0x0C, 0x10}, out[1:3])
	assert.Equal(t, "service=testrandom-argument=", string(out[3:]))
}

// serializeCountAndLengthsThenValues is a tiny test-only helper that
// drives the two production serialization steps in sequence, since no
// single exported method does both half of body encoding.
func (l ArgumentList) serializeCountAndLengthsThenValues(out []byte) error {
	out[0] = byte(l.Len())
	if err := l.serializeLengths(out[1 : 1+l.Len()]); err != nil {
		return err
	}
	return l.serializeEncodedValues(out[1+l.Len():])
}

func TestArgumentListRoundTrip(t *testing.T) {
	a1, err := NewArgument(mustTextField(t, "service"), mustTextField(t, "test"), true)
	require.NoError(t, err)
	a2, err := NewArgument(mustTextField(t, "priv-lvl"), mustTextField(t, "15"), false)
	require.NoError(t, err)
	list, err := NewArgumentList([]Argument{a1, a2})
	require.NoError(t, err)

	out := make([]byte, list.WireSize())
	require.NoError(t, list.serializeCountAndLengthsThenValues(out))

	lengths := out[1 : 1+list.Len()]
	values := out[1+list.Len():]
	got, err := deserializeArgumentList(out[0], lengths, values)
	require.NoError(t, err)

	require.Equal(t, list.Len(), got.Len())
	for i, want := range list.Arguments() {
		gotArg := got.Arguments()[i]
		assert.Equal(t, want.Name().String(), gotArg.Name().String())
		assert.Equal(t, want.Value().String(), gotArg.Value().String())
		assert.Equal(t, want.Required(), gotArg.Required())
	}
}

func TestHeaderRoundTrip(t *testing.T) {
	h := NewHeaderInfo(NewVersion(MinorDefault), 1, FlagSingleConnection, 0xDEADBEEF)
	buf := make([]byte, HeaderSizeBytes)
	n, err := h.serialize(buf, PacketTypeAuthentication, 28)
	require.NoError(t, err)
	assert.Equal(t, HeaderSizeBytes, n)

	got, packetType, bodyLength, err := deserializeHeader(buf)
	require.NoError(t, err)
	assert.Equal(t, h, got)
	assert.Equal(t, PacketTypeAuthentication, packetType)
	assert.Equal(t, uint32(28), bodyLength)
}

func TestHeaderRejectsUnknownFlags(t *testing.T) {
	h := NewHeaderInfo(NewVersion(MinorDefault), 1, 0, 1)
	buf := make([]byte, HeaderSizeBytes)
	_, err := h.serialize(buf, PacketTypeAuthentication, 0)
	require.NoError(t, err)
	buf[3] = 0x02 // an unassigned bit

	_, _, _, err = deserializeHeader(buf)
	assert.ErrorIs(t, err, ErrInvalidHeaderFlags)
}

func TestStartPacketBytesExample(t *testing.T) {
	ctx := AuthenticationContext{PrivilegeLevel: 3, Type: AuthenticationTypePap, Service: AuthenticationServicePpp}
	user, err := NewUserInformation("authtest", mustTextField(t, "serial"), mustTextField(t, "serial"))
	require.NoError(t, err)
	start, err := NewAuthenticationStart(AuthenActionLogin, ctx, user, nil)
	require.NoError(t, err)

	out := make([]byte, start.bodyWireSize())
	require.NoError(t, start.serializeBody(out))

	want := append([]byte{0x01, 0x03, 0x02, 0x03, 0x08, 0x06, 0x06, 0x00}, "authtestserialserial"...)
	assert.Equal(t, want, out)
	assert.Len(t, out, 28)
}

func TestObfuscationInvolution(t *testing.T) {
	key := []byte("very secure key that is super secret")
	body := []byte("hello, tacacs+ world, this is a test body")
	original := append([]byte(nil), body...)

	obfuscate(body, 0x12345678, key, NewVersion(MinorDefault), 1)
	assert.NotEqual(t, original, body)

	obfuscate(body, 0x12345678, key, NewVersion(MinorDefault), 1)
	assert.Equal(t, original, body)
}

func TestPacketSerializeSetsUnencryptedFlag(t *testing.T) {
	ctx := AuthenticationContext{PrivilegeLevel: 0, Type: AuthenticationTypePap, Service: AuthenticationServiceLogin}
	user, err := NewUserInformation("u", EmptyTextField, EmptyTextField)
	require.NoError(t, err)
	start, err := NewAuthenticationStart(AuthenActionLogin, ctx, user, []byte("pw"))
	require.NoError(t, err)

	header := NewHeaderInfo(NewVersion(MinorDefault), 1, 0, 42)
	packet := NewPacket[AuthenticationStart](header, start)

	out := make([]byte, packet.WireSize())
	_, err = packet.Serialize(out, nil)
	require.NoError(t, err)
	assert.Equal(t, byte(FlagUnencrypted), out[3]&byte(FlagUnencrypted))

	key := []byte("key")
	_, err = packet.Serialize(out, key)
	require.NoError(t, err)
	assert.Equal(t, byte(0), out[3]&byte(FlagUnencrypted))
}

func TestPacketRoundTripWithKey(t *testing.T) {
	ctx := AuthenticationContext{PrivilegeLevel: 0, Type: AuthenticationTypePap, Service: AuthenticationServiceLogin}
	user, err := NewUserInformation("someuser", mustTextField(t, "rust_client"), mustTextField(t, "tacacs_plus_rs"))
	require.NoError(t, err)
	start, err := NewAuthenticationStart(AuthenActionLogin, ctx, user, []byte("hunter2"))
	require.NoError(t, err)

	header := NewHeaderInfo(NewVersion(MinorDefault), 1, 0, 0xCAFEBABE)
	packet := NewPacket[AuthenticationStart](header, start)

	key := []byte("very secure key that is super secret")
	out := make([]byte, packet.WireSize())
	n, err := packet.Serialize(out, key)
	require.NoError(t, err)

	got, err := DeserializeAuthenticationStart(out[:n], key)
	require.NoError(t, err)
	assert.Equal(t, start, got.Body)
}

func TestPacketRejectsBadUnencryptedFlag(t *testing.T) {
	ctx := AuthenticationContext{PrivilegeLevel: 0, Type: AuthenticationTypePap, Service: AuthenticationServiceLogin}
	user, err := NewUserInformation("u", EmptyTextField, EmptyTextField)
	require.NoError(t, err)
	start, err := NewAuthenticationStart(AuthenActionLogin, ctx, user, nil)
	require.NoError(t, err)

	header := NewHeaderInfo(NewVersion(MinorDefault), 1, 0, 1)
	packet := NewPacket[AuthenticationStart](header, start)

	out := make([]byte, packet.WireSize())
	_, err = packet.Serialize(out, nil) // sets UNENCRYPTED
	require.NoError(t, err)

	_, err = DeserializeAuthenticationStart(out, []byte("a key"))
	assert.ErrorIs(t, err, ErrIncorrectUnencryptedFlag)

	out2 := make([]byte, packet.WireSize())
	_, err = packet.Serialize(out2, []byte("a key")) // clears UNENCRYPTED
	require.NoError(t, err)

	_, err = DeserializeAuthenticationStart(out2, nil)
	assert.ErrorIs(t, err, ErrIncorrectUnencryptedFlag)
}

func TestAuthorizationReplyPassReplaceArgumentRoundTrip(t *testing.T) {
	thing, err := NewArgument(mustTextField(t, "thing"), mustTextField(t, "not important"), false)
	require.NoError(t, err)
	args, err := NewArgumentList([]Argument{thing})
	require.NoError(t, err)

	reply, err := NewAuthorizationReply(AuthorizationStatusPassRepl, args, EmptyTextField, nil)
	require.NoError(t, err)

	out := make([]byte, reply.bodyWireSize())
	require.NoError(t, reply.serializeBody(out))

	got, err := deserializeAuthorizationReply(out)
	require.NoError(t, err)
	require.Equal(t, 1, got.Arguments.Len())
	assert.Equal(t, "not important", got.Arguments.Arguments()[0].Value().String())
}

func TestAccountingFlagsRejectsInvalidCombination(t *testing.T) {
	_, err := parseAccountingFlags(0b0110) // start|stop together: not one of the four
	assert.ErrorIs(t, err, ErrInvalidBodyFlags)
}

func TestAccountingRequestRoundTrip(t *testing.T) {
	ctx := AuthenticationContext{PrivilegeLevel: 1, Type: AuthenticationTypePap, Service: AuthenticationServiceLogin}
	user, err := NewUserInformation("u", EmptyTextField, EmptyTextField)
	require.NoError(t, err)
	taskID, err := NewArgument(mustTextField(t, "task_id"), mustTextField(t, "1234"), true)
	require.NoError(t, err)
	args, err := NewArgumentList([]Argument{taskID})
	require.NoError(t, err)

	req := NewAccountingRequest(AccountingStartRecord, AuthenticationMethodTacacsPlus, ctx, user, args)
	out := make([]byte, req.bodyWireSize())
	require.NoError(t, req.serializeBody(out))

	got, err := deserializeAccountingRequest(out)
	require.NoError(t, err)
	assert.Equal(t, req.Flags, got.Flags)
	assert.Equal(t, req.Method, got.Method)
	require.Equal(t, 1, got.Arguments.Len())
	assert.Equal(t, "1234", got.Arguments.Arguments()[0].Value().String())
}
