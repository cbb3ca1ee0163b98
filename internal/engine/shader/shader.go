// Package shader wraps OpenGL program compilation and uniform access.
package shader

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// Program is a linked GL program with a cache of uniform locations.
type Program struct {
	ID       uint32
	name     string
	uniforms map[string]int32
}

// Compile compiles vertex and fragment sources and links them into a program.
// The name only appears in error messages.
func Compile(name, vertexSrc, fragmentSrc string) (*Program, error) {
	vert, err := compileShader(vertexSrc, gl.VERTEX_SHADER)
	if err != nil {
		return nil, fmt.Errorf("%s vertex shader: %w", name, err)
	}
	defer gl.DeleteShader(vert)

	frag, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		return nil, fmt.Errorf("%s fragment shader: %w", name, err)
	}
	defer gl.DeleteShader(frag)

	id := gl.CreateProgram()
	gl.AttachShader(id, vert)
	gl.AttachShader(id, frag)
	gl.LinkProgram(id)

	var status int32
	gl.GetProgramiv(id, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(id, gl.INFO_LOG_LENGTH, &logLen)
		log := infoLog(logLen, func(buf *uint8) { gl.GetProgramInfoLog(id, logLen, nil, buf) })
		gl.DeleteProgram(id)
		return nil, fmt.Errorf("%s link: %s", name, log)
	}

	return &Program{ID: id, name: name, uniforms: make(map[string]int32)}, nil
}

func compileShader(source string, kind uint32) (uint32, error) {
	sh := gl.CreateShader(kind)
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(sh, 1, csource, nil)
	free()
	gl.CompileShader(sh)

	var status int32
	gl.GetShaderiv(sh, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(sh, gl.INFO_LOG_LENGTH, &logLen)
		log := infoLog(logLen, func(buf *uint8) { gl.GetShaderInfoLog(sh, logLen, nil, buf) })
		gl.DeleteShader(sh)
		return 0, fmt.Errorf("%s", log)
	}
	return sh, nil
}

func infoLog(n int32, read func(*uint8)) string {
	if n <= 0 {
		return "(no log)"
	}
	buf := make([]byte, n)
	read(&buf[0])
	return string(buf)
}

// Use makes the program current.
func (p *Program) Use() {
	gl.UseProgram(p.ID)
}

// Uniform returns the location of a uniform, or -1 if it is inactive.
func (p *Program) Uniform(name string) int32 {
	if loc, ok := p.uniforms[name]; ok {
		return loc
	}
	loc := gl.GetUniformLocation(p.ID, gl.Str(name+"\x00"))
	p.uniforms[name] = loc
	return loc
}

// SetMat4 uploads a matrix uniform. The program must be current.
func (p *Program) SetMat4(name string, m mgl32.Mat4) {
	gl.UniformMatrix4fv(p.Uniform(name), 1, false, &m[0])
}

// SetFloat uploads a scalar uniform. The program must be current.
func (p *Program) SetFloat(name string, v float32) {
	gl.Uniform1f(p.Uniform(name), v)
}

// Delete releases the GL program.
func (p *Program) Delete() {
	if p.ID != 0 {
		gl.DeleteProgram(p.ID)
		p.ID = 0
	}
}
