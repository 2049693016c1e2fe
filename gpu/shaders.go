// SPDX-License-Identifier: Unlicense OR MIT

package gpu

// VertexShaderSrc and FragmentShaderSrc implement the textured-quad
// program needed: a vertex shader that applies a 3x3
// matrix to a unit quad, and a fragment shader that samples one
// texture.
const VertexShaderSrc = `#version 330 core
layout(location = 0) in vec2 pos;
layout(location = 1) in vec2 uv;
uniform mat3 transform;
out vec2 vUV;
void main() {
	vec3 p = transform * vec3(pos, 1.0);
	gl_Position = vec4(p.xy, 0.0, 1.0);
	vUV = uv;
}
`

const FragmentShaderSrc = `#version 330 core
in vec2 vUV;
uniform sampler2D tex;
out vec4 fragColor;
void main() {
	fragColor = texture(tex, vUV);
}
`

// QuadPositions and QuadTexCoords are the static position and
// texture-coordinate buffers specified to be are uploaded once: a
// unit quad drawn as two triangles (six vertices, no index buffer).
var QuadPositions = []float32{
	-1, -1,
	1, -1,
	-1, 1,
	-1, 1,
	1, -1,
	1, 1,
}

var QuadTexCoords = []float32{
	0, 1,
	1, 1,
	0, 0,
	0, 0,
	1, 1,
	1, 0,
}
