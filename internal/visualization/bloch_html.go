// Package visualization renders Bloch-sphere coordinates into
// self-contained HTML documents.
package visualization

import (
	"fmt"
	"html/template"
	"strings"
)

// blochTemplate is parsed once at process start. The document embeds a
// three.js unit sphere, a marker at the given coordinates, a line from
// the origin to the marker and the numeric coordinates at fixed
// precision. It has no external dependencies beyond the CDN script tag.
var blochTemplate = template.Must(template.New("bloch").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}</title>
    <script src="https://cdnjs.cloudflare.com/ajax/libs/three.js/r128/three.min.js"></script>
    <style>
        body {
            margin: 0;
            font-family: Arial, sans-serif;
            background: #1a1a1a;
            color: #fff;
            display: flex;
            flex-direction: column;
            align-items: center;
            padding: 20px;
        }
        #container {
            width: 800px;
            height: 600px;
            border: 2px solid #444;
            border-radius: 8px;
            margin: 20px 0;
        }
        #info {
            text-align: center;
            margin: 10px 0;
        }
        .coord {
            display: inline-block;
            margin: 0 15px;
            font-family: monospace;
        }
    </style>
</head>
<body>
    <h1>{{.Title}}</h1>
    <div id="container"></div>
    <div id="info">
        <div class="coord">x = {{.XText}}</div>
        <div class="coord">y = {{.YText}}</div>
        <div class="coord">z = {{.ZText}}</div>
    </div>
    <script>
        const scene = new THREE.Scene();
        const camera = new THREE.PerspectiveCamera(75, 800/600, 0.1, 1000);
        const renderer = new THREE.WebGLRenderer({ antialias: true });
        renderer.setSize(800, 600);
        document.getElementById('container').appendChild(renderer.domElement);

        const ambientLight = new THREE.AmbientLight(0x404040, 0.6);
        scene.add(ambientLight);
        const directionalLight = new THREE.DirectionalLight(0xffffff, 0.8);
        directionalLight.position.set(5, 5, 5);
        scene.add(directionalLight);

        // Bloch sphere (unit sphere)
        const sphereGeometry = new THREE.SphereGeometry(1, 32, 32);
        const sphereMaterial = new THREE.MeshPhongMaterial({
            color: 0x4a90e2,
            transparent: true,
            opacity: 0.3,
            side: THREE.DoubleSide,
            wireframe: false
        });
        scene.add(new THREE.Mesh(sphereGeometry, sphereMaterial));

        const wireframe = new THREE.WireframeGeometry(sphereGeometry);
        scene.add(new THREE.LineSegments(wireframe, new THREE.LineBasicMaterial({ color: 0xffffff, opacity: 0.2 })));

        scene.add(new THREE.AxesHelper(1.2));

        // State marker
        const pointGeometry = new THREE.SphereGeometry(0.05, 16, 16);
        const pointMaterial = new THREE.MeshPhongMaterial({ color: 0xff4444 });
        const point = new THREE.Mesh(pointGeometry, pointMaterial);
        point.position.set({{.XText}}, {{.YText}}, {{.ZText}});
        scene.add(point);

        // Line from origin to marker
        const lineGeometry = new THREE.BufferGeometry().setFromPoints([
            new THREE.Vector3(0, 0, 0),
            new THREE.Vector3({{.XText}}, {{.YText}}, {{.ZText}})
        ]);
        scene.add(new THREE.Line(lineGeometry, new THREE.LineBasicMaterial({ color: 0xff4444, linewidth: 2 })));

        camera.position.set(2.5, 2.5, 2.5);
        camera.lookAt(0, 0, 0);

        let angle = 0;
        function animate() {
            requestAnimationFrame(animate);
            angle += 0.01;
            camera.position.x = 2.5 * Math.cos(angle);
            camera.position.z = 2.5 * Math.sin(angle);
            camera.lookAt(0, 0, 0);
            renderer.render(scene, camera);
        }
        animate();
    </script>
</body>
</html>
`))

type blochTemplateData struct {
	Title string
	XText template.JS
	YText template.JS
	ZText template.JS
}

// BlochSphereHTML renders a self-contained Bloch-sphere document for the
// point (x, y, z). Pure and deterministic: no I/O, no state, identical
// output for identical inputs.
func BlochSphereHTML(x, y, z float64, title string) (string, error) {
	data := blochTemplateData{
		Title: title,
		XText: template.JS(fmt.Sprintf("%.4f", x)),
		YText: template.JS(fmt.Sprintf("%.4f", y)),
		ZText: template.JS(fmt.Sprintf("%.4f", z)),
	}
	var buf strings.Builder
	if err := blochTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render bloch sphere document: %w", err)
	}
	return buf.String(), nil
}
